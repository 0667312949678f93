package entities

type Category struct {
	ID          uint64 `json:"id"`
	Name        string `json:"categoryName"`
	Description string `json:"description"`
}
