package post

import (
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
	"github.com/ptrkvsky/mdx-to-sanity/internal/markdown"
)

const defaultCategoryRef = "category-default"

// Frontmatter is the typed view of the untyped frontmatter map. Every
// optional field is copied into the Post only after an explicit presence
// check.
type Frontmatter struct {
	Title          string `mapstructure:"title"`
	Description    string `mapstructure:"description"`
	Slug           string `mapstructure:"slug"`
	SEOTitle       string `mapstructure:"seoTitle"`
	SEODescription string `mapstructure:"seoDescription"`
	SEOKeywords    string `mapstructure:"seoKeywords"`
	NoIndex        *bool  `mapstructure:"noIndex"`
	CanonicalURL   string `mapstructure:"canonicalUrl"`

	MainImage *domain.Image `mapstructure:"mainImage"`
}

// decodeFrontmatter coerces the untyped map into the typed view. A map that
// cannot be coerced yields the zero value; assembly then falls back to the
// generated defaults and validation reports anything still missing.
func decodeFrontmatter(fm map[string]any, logger *zap.Logger) Frontmatter {
	var out Frontmatter
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		logger.Warn("frontmatter decoder init failed", zap.Error(err))
		return Frontmatter{}
	}
	if err := decoder.Decode(fm); err != nil {
		logger.Warn("frontmatter decode failed, ignoring frontmatter", zap.Error(err))
		return Frontmatter{}
	}
	return out
}

// generateSlug derives the post slug from the supplied frontmatter slug or,
// absent one, from the title.
func generateSlug(fm Frontmatter, title string) domain.Slug {
	current := fm.Slug
	if current == "" {
		current = markdown.Slugify(title)
	}
	if current == "" {
		current = "untitled"
	}
	return domain.Slug{Type: domain.TypeSlug, Current: current}
}

// defaultMainImage builds an image reference from the CMS default asset id,
// or nil when none is available.
func defaultMainImage(assetID string) *domain.Image {
	if assetID == "" {
		return nil
	}
	return &domain.Image{
		Type:  domain.TypeImage,
		Asset: domain.Reference{Type: domain.TypeReference, Ref: assetID},
	}
}

// defaultCategories is the fixed fallback used when no category can be
// resolved from the CMS.
func defaultCategories() []domain.Reference {
	return []domain.Reference{{Type: domain.TypeReference, Ref: defaultCategoryRef}}
}
