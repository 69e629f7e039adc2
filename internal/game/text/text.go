// Package text implements JSON chat components: styled text that may be a
// literal or a translation key, with child components appended after it.
package text

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Component is one styled node of a chat message. Exactly one of Text or
// Translate carries the content; With supplies translation arguments.
type Component struct {
	Text          string       `json:"text,omitempty"`
	Translate     string       `json:"translate,omitempty"`
	With          []*Component `json:"with,omitempty"`
	Color         string       `json:"color,omitempty"`
	Bold          *bool        `json:"bold,omitempty"`
	Italic        *bool        `json:"italic,omitempty"`
	Underlined    *bool        `json:"underlined,omitempty"`
	Strikethrough *bool        `json:"strikethrough,omitempty"`
	Obfuscated    *bool        `json:"obfuscated,omitempty"`
	Insertion     string       `json:"insertion,omitempty"`
	Extra         []*Component `json:"extra,omitempty"`
}

// Literal returns a plain text component.
func Literal(s string) *Component {
	return &Component{Text: s}
}

// Translatable returns a component rendered from a translation key.
func Translatable(key string, args ...*Component) *Component {
	return &Component{Translate: key, With: args}
}

// Append adds children and returns c for chaining.
func (c *Component) Append(children ...*Component) *Component {
	c.Extra = append(c.Extra, children...)
	return c
}

// WithColor sets the color and returns c.
func (c *Component) WithColor(color string) *Component {
	c.Color = color
	return c
}

// WithBold sets the bold flag and returns c.
func (c *Component) WithBold(bold bool) *Component {
	c.Bold = &bold
	return c
}

// WithItalic sets the italic flag and returns c.
func (c *Component) WithItalic(italic bool) *Component {
	c.Italic = &italic
	return c
}

// Plain returns the unstyled text of c and its children. Translations are
// rendered as their key followed by bracketed arguments.
func (c *Component) Plain() string {
	var b strings.Builder
	c.writePlain(&b)
	return b.String()
}

func (c *Component) writePlain(b *strings.Builder) {
	if c == nil {
		return
	}
	if c.Translate != "" {
		b.WriteString(c.Translate)
		if len(c.With) > 0 {
			b.WriteByte('[')
			for i, arg := range c.With {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.writePlain(b)
			}
			b.WriteByte(']')
		}
	} else {
		b.WriteString(c.Text)
	}
	for _, child := range c.Extra {
		child.writePlain(b)
	}
}

// Serialize returns the JSON form of c.
func Serialize(c *Component) (string, error) {
	if c == nil {
		return "", errors.New("text: nil component")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("text: marshal component: %w", err)
	}
	return string(data), nil
}

// Deserialize parses the JSON form of a component. Besides objects it
// accepts the shorthand forms: a bare string is a literal, and an array is
// its first element with the rest appended as children.
func Deserialize(s string) (*Component, error) {
	var c Component
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	return &c, nil
}

type componentAlias Component

// MarshalJSON always emits the text key for literal components so an empty
// literal stays decodable.
func (c Component) MarshalJSON() ([]byte, error) {
	alias := componentAlias(c)
	if c.Translate != "" {
		return json.Marshal(alias)
	}
	return json.Marshal(struct {
		Text string `json:"text"`
		componentAlias
	}{Text: c.Text, componentAlias: alias})
}

// UnmarshalJSON implements the shorthand forms described on Deserialize.
func (c *Component) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty component")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = Component{Text: s}
		return nil
	case '[':
		var parts []*Component
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return err
		}
		if len(parts) == 0 || parts[0] == nil {
			return errors.New("component array must not be empty")
		}
		*c = *parts[0]
		c.Extra = append(c.Extra, parts[1:]...)
		return nil
	case '{':
		var alias componentAlias
		if err := json.Unmarshal(trimmed, &alias); err != nil {
			return err
		}
		if alias.Text == "" && alias.Translate == "" && len(alias.Extra) == 0 && !hasTextKey(trimmed) {
			return errors.New("component has no text or translate content")
		}
		*c = Component(alias)
		return nil
	default:
		return fmt.Errorf("unexpected component token %q", trimmed[0])
	}
}

func hasTextKey(object []byte) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(object, &keys); err != nil {
		return false
	}
	_, ok := keys["text"]
	return ok
}
