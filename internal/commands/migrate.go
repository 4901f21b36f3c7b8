package commands

import (
	"fmt"
	"log"

	"lunch/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "CREATE TYPE \"lunch_role\" AS ENUM",
		Query: `
        CREATE TYPE "lunch_role" AS ENUM ('ADMIN', 'EMPLOYEE', 'CHEF');`,
	},
	{
		Index:       2,
		Description: "CREATE TYPE \"lunch_status\" AS ENUM",
		Query: `
        CREATE TYPE "lunch_status" AS ENUM ('office', 'home', 'leave');`,
	},
	{
		Index:       3,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            email text not null unique,
            password text not null,
            full_name text,
            role lunch_role not null default 'EMPLOYEE',
            is_active boolean not null default true,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       4,
		Description: "Create admin with email: admin@lunch.local, password: 1",
		Query: `
        INSERT INTO users(email, full_name, role, password)
        SELECT 'admin@lunch.local', 'Administrator', 'ADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT email FROM users WHERE email = 'admin@lunch.local');
        `,
	},
	{
		Index:       5,
		Description: "Create chef with email: chef@lunch.local, password: 1",
		Query: `
        INSERT INTO users(email, full_name, role, password)
        SELECT 'chef@lunch.local', 'Kitchen Chef', 'CHEF', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT email FROM users WHERE email = 'chef@lunch.local');
        `,
	},
	{
		Index:       6,
		Description: "Create table: attendance.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance (
            id SERIAL PRIMARY KEY,
            user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            work_day DATE NOT NULL,
            status lunch_status NOT NULL,
            marked_at TIMESTAMP NOT NULL DEFAULT NOW(),
            created_at TIMESTAMP DEFAULT NOW(),
            created_by INT REFERENCES users(id),
            updated_at TIMESTAMP,
            updated_by INT REFERENCES users(id),
            deleted_at TIMESTAMP,
            deleted_by INT REFERENCES users(id),
            CONSTRAINT attendance_user_day_key UNIQUE (user_id, work_day)
        );`,
	},
	{
		Index:       7,
		Description: "Create table: notifications.",
		Query: `
        CREATE TABLE IF NOT EXISTS notifications (
            id SERIAL PRIMARY KEY,
            type TEXT NOT NULL,
            recipient TEXT NOT NULL,
            content TEXT,
            office_count INT NOT NULL DEFAULT 0,
            sent_at TIMESTAMP NOT NULL DEFAULT NOW(),
            status TEXT NOT NULL
        );`,
	},
}

// Migrate creates the scheme in the database.
func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", err)
		}
	}
}

func MigrateUP(db *postgresql.Database) {
	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRow("SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if err.Error() == `ERROR: relation "schema_migrations" does not exist (SQLSTATE=42P01)` {
			if _, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
				DELETE FROM schema_migrations;
				INSERT INTO schema_migrations (version, dirty) values (0, false);
			`); err != nil {
				log.Fatalln("migrate schema_migrations create error", err)
			}
			version = 0
			dirty = false
		} else {
			log.Fatalln("migrate schema_migrations scan: ", err)
		}
	}

	if dirty {
		for _, v := range scheme {
			if v.Index == version {
				if _, err = db.Exec(v.Query); err != nil {
					if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s'`, err.Error())); err != nil {
						log.Fatalln("migrate error", err)
					}
					log.Fatalln(fmt.Sprintf("migrate error version: %d", version), err)
				}
				if _, err = db.Exec(`UPDATE schema_migrations SET dirty = false, error = null`); err != nil {
					log.Fatalln("migrate error", err)
				}
			}
		}
	}

	for _, s := range scheme {
		if s.Index > version {
			if _, err = db.Exec(s.Query); err != nil {
				if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s', version = %d, dirty = true`, err.Error(), s.Index)); err != nil {
					log.Fatalln("migrate error", err)
				}
				log.Fatalln(fmt.Sprintf("migrate error version: %d", s.Index), err)
			}
			if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET version = %d`, s.Index)); err != nil {
				log.Fatalln("migrate error", err)
			}
		}
	}
}
