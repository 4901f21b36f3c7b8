package notification

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Status *string
}
