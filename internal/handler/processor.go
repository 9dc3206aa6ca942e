package handler

// ImageProcessor turns an input image string into the annotated image string.
type ImageProcessor interface {
	ProcessImage(input string) (string, error)
}

// ModelInfo reports which model backend serves inference.
type ModelInfo interface {
	ModelName() string
}

// ClientCounter reports how many stream clients are connected.
type ClientCounter interface {
	GetClientCount() int
}
