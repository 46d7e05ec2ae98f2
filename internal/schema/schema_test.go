package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ptrkvsky/mdx-to-sanity/internal/domain"
)

func validPost() domain.Post {
	return domain.Post{
		Type:        domain.TypePost,
		Title:       "A Valid Post",
		Description: "A description",
		PostType:    "post",
		Slug:        domain.Slug{Type: domain.TypeSlug, Current: "a-valid-post"},
		MainImage: &domain.Image{
			Type:  domain.TypeImage,
			Asset: domain.Reference{Type: domain.TypeReference, Ref: "image-abc123"},
		},
		Categories: []domain.Reference{
			{Type: domain.TypeReference, Ref: "category-go"},
		},
		Body: domain.Body{
			domain.Block{
				Type:  domain.TypeBlock,
				Key:   "b1",
				Style: "normal",
				Children: []domain.Span{
					{Type: domain.TypeSpan, Text: "hello"},
				},
			},
		},
	}
}

func paths(errs Errors) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Path
	}
	return out
}

func TestValidate_ValidPost(t *testing.T) {
	t.Parallel()

	require.Nil(t, Validate(validPost()))
}

func TestValidate_MissingTitle(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.Title = ""
	errs := Validate(post)
	require.Len(t, errs, 1)
	require.Equal(t, "title", errs[0].Path)
	require.Equal(t, "the title is required", errs[0].Message)
}

func TestValidate_MissingMainImage(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.MainImage = nil
	errs := Validate(post)
	require.Contains(t, paths(errs), "mainImage")
	require.Contains(t, errs.Error(), "mainImage is required")
}

func TestValidate_EmptyCategories(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.Categories = nil
	errs := Validate(post)
	require.Contains(t, paths(errs), "categories")
}

func TestValidate_EmptyBody(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.Body = nil
	errs := Validate(post)
	require.Contains(t, paths(errs), "body")
}

func TestValidate_BlockWithoutChildren(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.Body = domain.Body{domain.Block{Type: domain.TypeBlock, Style: "normal"}}
	errs := Validate(post)
	require.Contains(t, paths(errs), "body.0.children")
}

func TestValidate_InvalidBlockStyle(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.Body = domain.Body{domain.Block{
		Type:     domain.TypeBlock,
		Style:    "h7",
		Children: []domain.Span{{Type: domain.TypeSpan, Text: "x"}},
	}}
	errs := Validate(post)
	require.Contains(t, paths(errs), "body.0.style")
}

func TestValidate_InvalidPostType(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.PostType = "page"
	errs := Validate(post)
	require.Contains(t, paths(errs), "type")
}

func TestValidate_SlugTooLong(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.Slug.Current = strings.Repeat("a", 97)
	errs := Validate(post)
	require.Contains(t, paths(errs), "slug.current")
	require.Contains(t, errs.Error(), "must be at most 96 characters")
}

func TestValidate_SEOFieldLengths(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.SEOTitle = strings.Repeat("a", 61)
	post.SEODescription = strings.Repeat("b", 161)
	errs := Validate(post)
	require.Contains(t, paths(errs), "seoTitle")
	require.Contains(t, paths(errs), "seoDescription")
}

func TestValidate_InvalidCanonicalURL(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.CanonicalURL = "not a url"
	errs := Validate(post)
	require.Contains(t, paths(errs), "canonicalUrl")
}

func TestValidate_CropOutOfRange(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.MainImage.Crop = &domain.ImageCrop{Top: 1.5}
	errs := Validate(post)
	require.Contains(t, paths(errs), "mainImage.crop.top")
}

func TestValidate_MarkDefLinkWithoutHref(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.Body = domain.Body{domain.Block{
		Type:     domain.TypeBlock,
		Style:    "normal",
		Children: []domain.Span{{Type: domain.TypeSpan, Text: "x", Marks: []string{"m1"}}},
		MarkDefs: []domain.MarkDef{{Key: "m1", Type: domain.TypeLink}},
	}}
	errs := Validate(post)
	require.Contains(t, paths(errs), "body.0.markDefs.0.href")
}

func TestValidate_QuestionAnswerRequiresBothFields(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.QuestionsAnswers = []domain.QuestionAnswer{
		{Type: domain.TypeQA, Question: "What is Go?"},
	}
	errs := Validate(post)
	require.Contains(t, paths(errs), "questionsAnswers.0.answer")
}

func TestValidate_AggregatesAllViolations(t *testing.T) {
	t.Parallel()

	post := validPost()
	post.Title = ""
	post.Description = ""
	post.MainImage = nil
	errs := Validate(post)
	require.Len(t, errs, 3)

	msg := errs.Error()
	require.Contains(t, msg, "title: the title is required")
	require.Contains(t, msg, "description: the description is required")
	require.Contains(t, msg, "mainImage: mainImage is required")
	require.Equal(t, 2, strings.Count(msg, ", "), "violations are comma-joined")
}
