package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ptrkvsky/mdx-to-sanity/internal/markdown"
)

const invalidBodyMessage = "Request body must contain either 'filePath' (string) or " +
	"'markdown' (string) with optional 'frontmatter'"

type markdownToSanityRequest struct {
	FilePath    *string        `json:"filePath"`
	Markdown    *string        `json:"markdown"`
	Frontmatter map[string]any `json:"frontmatter"`
	Publish     bool           `json:"publish"`
}

func (r markdownToSanityRequest) valid() bool {
	return r.FilePath != nil || r.Markdown != nil
}

// handleMarkdownToSanity drives markdown → post assembly → optional publish.
func (s *Server) handleMarkdownToSanity(w http.ResponseWriter, r *http.Request) {
	var req markdownToSanityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.valid() {
		writeError(w, s.logger, http.StatusBadRequest, invalidBodyMessage)
		return
	}

	markdownText, override, err := s.resolveInput(req)
	if err != nil {
		s.logger.Error("markdown input error", zap.Error(err))
		writeError(w, s.logger, http.StatusInternalServerError, err.Error())
		return
	}

	assembled, err := s.assembler.Assemble(r.Context(), markdownText, override)
	if err != nil {
		s.logger.Error("markdown to sanity conversion error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, s.logger, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Publish && s.publisher != nil {
		documentID, err := s.publisher.Publish(r.Context(), assembled)
		if err != nil {
			s.logger.Error("publish error", zap.Error(err))
			writeError(w, s.logger, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, s.logger, http.StatusCreated, map[string]any{
			"success":    true,
			"post":       assembled,
			"documentId": documentID,
			"published":  true,
		})
		return
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]any{
		"success":   true,
		"post":      assembled,
		"published": false,
	})
}

// resolveInput returns the Markdown text to assemble and the frontmatter
// override, reading from disk for the filePath variant.
func (s *Server) resolveInput(req markdownToSanityRequest) (string, map[string]any, error) {
	if req.FilePath != nil {
		parsed, err := markdown.ParseFile(*req.FilePath)
		if err != nil {
			return "", nil, err
		}
		return parsed.Content, parsed.Frontmatter, nil
	}
	return *req.Markdown, req.Frontmatter, nil
}
