package domain

import (
	"encoding/json"
	"fmt"
)

// BlockItem is one structured unit of a post body. The concrete types are
// Block, MainImage, CodeBlock and YouTubeEmbed, discriminated by _type.
type BlockItem interface {
	BlockType() string
}

// Body is the ordered sequence of content blocks making up a post.
type Body []BlockItem

// Span is a run of text with optional marks (strong, em, code or a markDef key).
type Span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// MarkDef annotates spans with link targets. Type is either "link" with an
// Href, or "internalLink" with a Reference.
type MarkDef struct {
	Key       string     `json:"_key"`
	Type      string     `json:"_type"`
	Href      string     `json:"href,omitempty"`
	Reference *Reference `json:"reference,omitempty"`
}

// Block is a styled text block.
type Block struct {
	Type     string    `json:"_type"`
	Key      string    `json:"_key,omitempty"`
	Style    string    `json:"style,omitempty"` // normal, h1..h4, blockquote
	ListItem string    `json:"listItem,omitempty"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs,omitempty"`
	Level    int       `json:"level,omitempty"`
}

// MainImage is an inline image block.
type MainImage struct {
	Type    string        `json:"_type"`
	Key     string        `json:"_key,omitempty"`
	Asset   Reference     `json:"asset"`
	Crop    *ImageCrop    `json:"crop,omitempty"`
	Hotspot *ImageHotspot `json:"hotspot,omitempty"`
	Caption string        `json:"caption,omitempty"`
	Alt     string        `json:"alt,omitempty"`
}

// CodeBlock is a fenced code block.
type CodeBlock struct {
	Type             string `json:"_type"`
	Key              string `json:"_key,omitempty"`
	Code             string `json:"code"`
	Language         string `json:"language,omitempty"`
	Filename         string `json:"filename,omitempty"`
	HighlightedLines []int  `json:"highlightedLines,omitempty"`
}

// YouTubeEmbed embeds a video by URL.
type YouTubeEmbed struct {
	Type string `json:"_type"`
	Key  string `json:"_key,omitempty"`
	URL  string `json:"url"`
}

// BlockType implements BlockItem.
func (b Block) BlockType() string { return TypeBlock }

// BlockType implements BlockItem.
func (m MainImage) BlockType() string { return TypeMainImage }

// BlockType implements BlockItem.
func (c CodeBlock) BlockType() string { return TypeCode }

// BlockType implements BlockItem.
func (y YouTubeEmbed) BlockType() string { return TypeYouTube }

// UnmarshalJSON decodes a block array, dispatching each element on its _type
// discriminator.
func (b *Body) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode body array: %w", err)
	}
	items := make(Body, 0, len(raw))
	for i, msg := range raw {
		var head struct {
			Type string `json:"_type"`
		}
		if err := json.Unmarshal(msg, &head); err != nil {
			return fmt.Errorf("decode block %d: %w", i, err)
		}
		item, err := decodeBlockItem(head.Type, msg)
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		items = append(items, item)
	}
	*b = items
	return nil
}

func decodeBlockItem(blockType string, msg json.RawMessage) (BlockItem, error) {
	switch blockType {
	case TypeBlock:
		var block Block
		if err := json.Unmarshal(msg, &block); err != nil {
			return nil, fmt.Errorf("decode text block: %w", err)
		}
		return block, nil
	case TypeMainImage:
		var img MainImage
		if err := json.Unmarshal(msg, &img); err != nil {
			return nil, fmt.Errorf("decode image block: %w", err)
		}
		return img, nil
	case TypeCode:
		var code CodeBlock
		if err := json.Unmarshal(msg, &code); err != nil {
			return nil, fmt.Errorf("decode code block: %w", err)
		}
		return code, nil
	case TypeYouTube:
		var yt YouTubeEmbed
		if err := json.Unmarshal(msg, &yt); err != nil {
			return nil, fmt.Errorf("decode youtube block: %w", err)
		}
		return yt, nil
	default:
		return nil, fmt.Errorf("unknown block type %q", blockType)
	}
}
