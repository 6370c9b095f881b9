package newsletter

// Issue is one newsletter edition as submitted by the operator. Both bodies
// are sent verbatim to every confirmed subscriber.
type Issue struct {
	Title   string  `json:"title" validate:"required"`
	Content Content `json:"content" validate:"required"`
}

type Content struct {
	HTML string `json:"html" validate:"required"`
	Text string `json:"text" validate:"required"`
}
