package model

// FilterSelection is the LLM's translation of a free-text shopping request
// into a marketplace category and a set of filter choices.
type FilterSelection struct {
	Category string         `json:"category"`
	Filters  []FilterChoice `json:"filters"`
}

// FilterChoice is one selected filter. Standard filters carry an option
// label; range filters (price, rating) carry min/max bounds instead.
type FilterChoice struct {
	FilterName  string `json:"filter_name"`
	OptionLabel string `json:"option_label,omitempty"`
	Min         *int   `json:"min,omitempty"`
	Max         *int   `json:"max,omitempty"`
}
