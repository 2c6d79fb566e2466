package models

// Guest lives only inside an occupied Room and is dropped on checkout.
type Guest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Price   int64  `json:"price"`
	Guests  int    `json:"guests"`
	Payment string `json:"payment"`
	Balance int64  `json:"balance"`
	Photo   string `json:"photo,omitempty"`
}
