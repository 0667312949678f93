package entities

type Location struct {
	ID       uint64 `json:"id"`
	Name     string `json:"locationName"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
}
