package domain

// Sanity document type constants used across the pipelines.
const (
	TypePost      = "post"
	TypeReference = "reference"
	TypeSlug      = "slug"
	TypeImage     = "image"
	TypeSpan      = "span"
	TypeBlock     = "block"
	TypeMainImage = "mainImage"
	TypeCode      = "code"
	TypeYouTube   = "youtube"
	TypeLink      = "link"
	TypeInternal  = "internalLink"
	TypeQA        = "questionsAnswers"
	TypeOpenGraph = "openGraph"
)

// Reference points at another Sanity document.
type Reference struct {
	Type string `json:"_type" mapstructure:"_type"`
	Ref  string `json:"_ref" mapstructure:"_ref"`
}

// Slug is the URL identifier of a post, at most 96 characters.
type Slug struct {
	Type    string `json:"_type" mapstructure:"_type"`
	Current string `json:"current" mapstructure:"current"`
}

// ImageCrop bounds are fractions of the image size, each in [0,1].
type ImageCrop struct {
	Top    float64 `json:"top" mapstructure:"top"`
	Bottom float64 `json:"bottom" mapstructure:"bottom"`
	Left   float64 `json:"left" mapstructure:"left"`
	Right  float64 `json:"right" mapstructure:"right"`
}

// ImageHotspot marks the focal area of an image, coordinates in [0,1].
type ImageHotspot struct {
	X      float64 `json:"x" mapstructure:"x"`
	Y      float64 `json:"y" mapstructure:"y"`
	Height float64 `json:"height" mapstructure:"height"`
	Width  float64 `json:"width" mapstructure:"width"`
}

// Image references an uploaded image asset.
type Image struct {
	Type    string        `json:"_type" mapstructure:"_type"`
	Asset   Reference     `json:"asset" mapstructure:"asset"`
	Crop    *ImageCrop    `json:"crop,omitempty" mapstructure:"crop"`
	Hotspot *ImageHotspot `json:"hotspot,omitempty" mapstructure:"hotspot"`
}

// QuestionAnswer is one FAQ entry attached to a post.
type QuestionAnswer struct {
	Type     string `json:"_type"`
	Key      string `json:"_key,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// OpenGraph holds social sharing metadata.
type OpenGraph struct {
	Type        string `json:"_type"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       *Image `json:"image,omitempty"`
	PageType    string `json:"type,omitempty"` // website, article or profile
}

// Category is a Sanity category document as returned by the CMS.
type Category struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Slug  *Slug  `json:"slug,omitempty"`
}

// Post is the publishable CMS document. A Post handed to callers has always
// passed full schema validation.
type Post struct {
	Type        string      `json:"_type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	PostType    string      `json:"type"` // definition or post
	IsHome      bool        `json:"isHome"`
	Slug        Slug        `json:"slug"`
	MainImage   *Image      `json:"mainImage,omitempty"`
	Categories  []Reference `json:"categories"`
	Body        Body        `json:"body"`

	SEOTitle         string           `json:"seoTitle,omitempty"`
	SEODescription   string           `json:"seoDescription,omitempty"`
	SEOImage         *Image           `json:"seoImage,omitempty"`
	SEOKeywords      string           `json:"seoKeywords,omitempty"`
	NoIndex          *bool            `json:"noIndex,omitempty"`
	CanonicalURL     string           `json:"canonicalUrl,omitempty"`
	QuestionsAnswers []QuestionAnswer `json:"questionsAnswers,omitempty"`
	OpenGraph        *OpenGraph       `json:"openGraph,omitempty"`

	ID        string `json:"_id,omitempty"`
	Rev       string `json:"_rev,omitempty"`
	CreatedAt string `json:"_createdAt,omitempty"`
	UpdatedAt string `json:"_updatedAt,omitempty"`
}
