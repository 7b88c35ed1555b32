package extract

// ROI source values supplied by the image-preprocessing collaborator.
const (
	SourceDetectedROI  = "detected_roi"
	SourceFullFallback = "full_fallback"
	SourceManual       = "manual"
	SourceSelfTest     = "self_test"
)

// Rect is an image sub-rectangle in pixel coordinates. The engine never
// touches pixels; the rectangle is advisory provenance only.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Context carries optional hints about where the OCR text came from. All
// fields are advisory score adjustments; a nil Context is valid.
type Context struct {
	ROI          *Rect  `json:"roi,omitempty"`
	ROISource    string `json:"roi_source,omitempty"`
	PipelineName string `json:"pipeline_name,omitempty"`
	ImageHeight  int    `json:"image_height,omitempty"`
}

// Source returns the ROI source, empty for a nil context.
func (c *Context) Source() string {
	if c == nil {
		return ""
	}
	return c.ROISource
}

// Name returns the pipeline name, empty for a nil context.
func (c *Context) Name() string {
	if c == nil {
		return ""
	}
	return c.PipelineName
}

// fromROI reports whether the text was recognized inside a detected metrics
// panel, which makes every match more trustworthy.
func (c *Context) fromROI() bool {
	return c != nil && c.ROISource == SourceDetectedROI
}
