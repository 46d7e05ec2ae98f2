package post

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
	"github.com/ptrkvsky/mdx-to-sanity/internal/markdown"
	"github.com/ptrkvsky/mdx-to-sanity/internal/metrics"
	"github.com/ptrkvsky/mdx-to-sanity/internal/schema"
)

// CMS is the subset of the content store the assembler depends on.
type CMS interface {
	CreateDocument(ctx context.Context, post domain.Post) (string, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	DefaultImage(ctx context.Context) string
}

// Assembler builds validated posts out of Markdown documents. The CMS client
// and the category selector are optional collaborators; every use is guarded
// by a presence check.
type Assembler struct {
	converter BodyConverter
	cms       CMS
	selector  CategorySelector
	logger    *zap.Logger
}

// NewAssembler builds an Assembler. cms and selector may be nil; the
// affected steps then fall back to their defaults.
func NewAssembler(converter BodyConverter, cms CMS, selector CategorySelector, logger *zap.Logger) *Assembler {
	return &Assembler{converter: converter, cms: cms, selector: selector, logger: logger}
}

// Assemble parses the Markdown document, converts its body to content
// blocks, fills the mandatory fields missing from the frontmatter and
// validates the result. An explicit frontmatter override takes precedence
// over the parsed one. The returned post has always passed full schema
// validation.
func (a *Assembler) Assemble(
	ctx context.Context,
	markdownText string,
	override map[string]any,
) (domain.Post, error) {
	parsed := markdown.Parse(markdownText)
	fmMap := parsed.Frontmatter
	if override != nil {
		fmMap = override
	}
	fm := decodeFrontmatter(fmMap, a.logger)

	body, err := a.converter.Convert(ctx, parsed.Content)
	if err != nil {
		metrics.ObservePostAssembly("conversion_failed")
		return domain.Post{}, err
	}

	title := fm.Title
	if title == "" {
		title = "Untitled"
	}
	description := fm.Description
	if description == "" {
		description = title
	}

	mainImage := fm.MainImage
	if mainImage == nil {
		mainImage = a.resolveMainImage(ctx)
	}
	if mainImage == nil {
		metrics.ObservePostAssembly("missing_image")
		return domain.Post{}, fmt.Errorf(
			"mainImage is required but no default image is available in the CMS; " +
				"provide an image in the frontmatter or upload one first")
	}

	candidate := domain.Post{
		Type:        domain.TypePost,
		Title:       title,
		Description: description,
		PostType:    "post",
		IsHome:      false,
		Slug:        generateSlug(fm, title),
		MainImage:   mainImage,
		Categories:  a.resolveCategories(ctx, title, description, parsed.Content),
		Body:        body,
	}
	applyOptionalFields(&candidate, fm)

	if errs := schema.Validate(candidate); errs != nil {
		metrics.ObservePostAssembly("validation_failed")
		return domain.Post{}, fmt.Errorf("post validation failed: %s", errs.Error())
	}
	metrics.ObservePostAssembly("success")
	return candidate, nil
}

// resolveMainImage queries the CMS for the most recent image asset. Absence
// of a CMS client, or an empty dataset, leaves the image unresolved.
func (a *Assembler) resolveMainImage(ctx context.Context) *domain.Image {
	if a.cms == nil {
		a.logger.Warn("no cms client configured, main image left unresolved")
		return nil
	}
	return defaultMainImage(a.cms.DefaultImage(ctx))
}

// resolveCategories asks the selector to classify the content into one of
// the CMS categories. Any failure in this step falls back to the fixed
// default reference.
func (a *Assembler) resolveCategories(ctx context.Context, title, description, content string) []domain.Reference {
	categories := defaultCategories()
	if a.cms == nil || a.selector == nil {
		return categories
	}

	available, err := a.cms.Categories(ctx)
	if err != nil {
		a.logger.Warn("category fetch failed, using default category", zap.Error(err))
		return categories
	}
	if len(available) == 0 {
		return categories
	}

	selected, err := a.selector.Select(ctx, title, description, content, available)
	if err != nil {
		a.logger.Warn("category selection failed, using default category", zap.Error(err))
		return categories
	}
	return []domain.Reference{{Type: domain.TypeReference, Ref: selected}}
}

// applyOptionalFields copies SEO fields present in the frontmatter onto the
// candidate, each behind an explicit presence check.
func applyOptionalFields(candidate *domain.Post, fm Frontmatter) {
	if fm.SEOTitle != "" {
		candidate.SEOTitle = fm.SEOTitle
	}
	if fm.SEODescription != "" {
		candidate.SEODescription = fm.SEODescription
	}
	if fm.SEOKeywords != "" {
		candidate.SEOKeywords = fm.SEOKeywords
	}
	if fm.NoIndex != nil {
		candidate.NoIndex = fm.NoIndex
	}
	if fm.CanonicalURL != "" {
		candidate.CanonicalURL = fm.CanonicalURL
	}
}

// Publish creates the post as a CMS document and returns the document id.
func (a *Assembler) Publish(ctx context.Context, p domain.Post) (string, error) {
	if a.cms == nil {
		return "", fmt.Errorf("no cms client configured")
	}
	id, err := a.cms.CreateDocument(ctx, p)
	if err != nil {
		return "", err
	}
	metrics.ObservePublish()
	return id, nil
}
