// Package schema validates assembled posts against the Sanity content model.
// Validation never panics on malformed input; it reports every violation with
// a dot-joined field path.
package schema

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
)

// FieldError is a single schema violation.
type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Errors aggregates every violation found in one validation pass.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, ", ")
}

var (
	postTypes   = []any{"definition", "post"}
	blockStyles = []any{"normal", "h1", "h2", "h3", "h4", "blockquote"}
	ogTypes     = []any{"website", "article", "profile"}
)

// Validate checks a post against the full content schema and returns every
// field violation. A nil return means the post is publishable.
func Validate(post domain.Post) Errors {
	var errs Errors

	check(&errs, "_type", post.Type, validation.Required, validation.In(domain.TypePost))
	check(&errs, "title", post.Title, validation.Required.Error("the title is required"))
	check(&errs, "description", post.Description, validation.Required.Error("the description is required"))
	check(&errs, "type", post.PostType, validation.Required, validation.In(postTypes...))

	check(&errs, "slug._type", post.Slug.Type, validation.Required, validation.In(domain.TypeSlug))
	check(&errs, "slug.current", post.Slug.Current,
		validation.Required,
		validation.RuneLength(0, 96).Error("must be at most 96 characters"),
	)

	if post.MainImage == nil {
		errs = append(errs, FieldError{Path: "mainImage", Message: "mainImage is required"})
	} else {
		validateImage(&errs, "mainImage", *post.MainImage)
	}

	if len(post.Categories) == 0 {
		errs = append(errs, FieldError{Path: "categories", Message: "at least one category is required"})
	}
	for i, ref := range post.Categories {
		validateReference(&errs, fmt.Sprintf("categories.%d", i), ref)
	}

	validateBody(&errs, post.Body)
	validateSEO(&errs, post)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateSEO(errs *Errors, post domain.Post) {
	check(errs, "seoTitle", post.SEOTitle,
		validation.RuneLength(0, 60).Error("the SEO title must be at most 60 characters"))
	check(errs, "seoDescription", post.SEODescription,
		validation.RuneLength(0, 160).Error("the SEO description must be at most 160 characters"))
	if post.SEOImage != nil {
		validateImage(errs, "seoImage", *post.SEOImage)
	}
	if post.CanonicalURL != "" {
		check(errs, "canonicalUrl", post.CanonicalURL,
			is.URL.Error("the canonical URL must be a valid URL"))
	}
	for i, qa := range post.QuestionsAnswers {
		path := fmt.Sprintf("questionsAnswers.%d", i)
		check(errs, path+"._type", qa.Type, validation.Required, validation.In(domain.TypeQA))
		check(errs, path+".question", qa.Question, validation.Required)
		check(errs, path+".answer", qa.Answer, validation.Required)
	}
	if og := post.OpenGraph; og != nil {
		check(errs, "openGraph._type", og.Type, validation.Required, validation.In(domain.TypeOpenGraph))
		check(errs, "openGraph.title", og.Title,
			validation.RuneLength(0, 60).Error("must be at most 60 characters"))
		check(errs, "openGraph.description", og.Description,
			validation.RuneLength(0, 160).Error("must be at most 160 characters"))
		if og.PageType != "" {
			check(errs, "openGraph.type", og.PageType, validation.In(ogTypes...))
		}
		if og.Image != nil {
			validateImage(errs, "openGraph.image", *og.Image)
		}
	}
}

func validateBody(errs *Errors, body domain.Body) {
	if len(body) == 0 {
		*errs = append(*errs, FieldError{Path: "body", Message: "the body must contain at least one block"})
		return
	}
	for i, item := range body {
		path := fmt.Sprintf("body.%d", i)
		switch block := item.(type) {
		case domain.Block:
			validateTextBlock(errs, path, block)
		case domain.MainImage:
			validateReference(errs, path+".asset", block.Asset)
			validateCropHotspot(errs, path, block.Crop, block.Hotspot)
		case domain.CodeBlock:
			check(errs, path+".code", block.Code, validation.Required)
		case domain.YouTubeEmbed:
			check(errs, path+".url", block.URL, validation.Required, is.URL)
		default:
			*errs = append(*errs, FieldError{Path: path, Message: "unknown block type"})
		}
	}
}

func validateTextBlock(errs *Errors, path string, block domain.Block) {
	if block.Style != "" {
		check(errs, path+".style", block.Style, validation.In(blockStyles...))
	}
	if block.ListItem != "" {
		check(errs, path+".listItem", block.ListItem, validation.In("bullet"))
	}
	if len(block.Children) == 0 {
		*errs = append(*errs, FieldError{Path: path + ".children", Message: "must contain at least one span"})
	}
	for i, span := range block.Children {
		check(errs, fmt.Sprintf("%s.children.%d._type", path, i), span.Type,
			validation.Required, validation.In(domain.TypeSpan))
	}
	for i, def := range block.MarkDefs {
		defPath := fmt.Sprintf("%s.markDefs.%d", path, i)
		check(errs, defPath+"._key", def.Key, validation.Required)
		check(errs, defPath+"._type", def.Type,
			validation.Required, validation.In(domain.TypeLink, domain.TypeInternal))
		switch def.Type {
		case domain.TypeLink:
			check(errs, defPath+".href", def.Href, validation.Required, is.URL)
		case domain.TypeInternal:
			if def.Reference == nil {
				*errs = append(*errs, FieldError{Path: defPath + ".reference", Message: "cannot be blank"})
			} else {
				validateReference(errs, defPath+".reference", *def.Reference)
			}
		}
	}
}

func validateImage(errs *Errors, path string, img domain.Image) {
	check(errs, path+"._type", img.Type, validation.Required, validation.In(domain.TypeImage))
	validateReference(errs, path+".asset", img.Asset)
	validateCropHotspot(errs, path, img.Crop, img.Hotspot)
}

func validateCropHotspot(errs *Errors, path string, crop *domain.ImageCrop, hotspot *domain.ImageHotspot) {
	if crop != nil {
		checkUnit(errs, path+".crop.top", crop.Top)
		checkUnit(errs, path+".crop.bottom", crop.Bottom)
		checkUnit(errs, path+".crop.left", crop.Left)
		checkUnit(errs, path+".crop.right", crop.Right)
	}
	if hotspot != nil {
		checkUnit(errs, path+".hotspot.x", hotspot.X)
		checkUnit(errs, path+".hotspot.y", hotspot.Y)
		checkUnit(errs, path+".hotspot.height", hotspot.Height)
		checkUnit(errs, path+".hotspot.width", hotspot.Width)
	}
}

func validateReference(errs *Errors, path string, ref domain.Reference) {
	check(errs, path+"._type", ref.Type, validation.Required, validation.In(domain.TypeReference))
	check(errs, path+"._ref", ref.Ref, validation.Required)
}

// check runs ozzo rules against a single value and records the failure under
// the given path.
func check(errs *Errors, path string, value any, rules ...validation.Rule) {
	if err := validation.Validate(value, rules...); err != nil {
		*errs = append(*errs, FieldError{Path: path, Message: err.Error()})
	}
}

func checkUnit(errs *Errors, path string, value float64) {
	check(errs, path, value, validation.Min(0.0), validation.Max(1.0))
}
