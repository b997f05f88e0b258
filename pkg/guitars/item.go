package guitars

// Item is a single guitar. Its name doubles as its identifier.
type Item struct {
	Name string `json:"name" validate:"required,max=128,excludesall=0x2C,segment"`
	// Link is the canonical address of the item
	Link string `json:"link,omitempty" validate:"-"`
}
