package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Credentials is the login and registration payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Channel is a topic a user can subscribe to.
type Channel struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Subscribers []string `json:"subscribers"`
}

// UnmarshalJSON accepts both "name" and "nombre"; the backend is not consistent
// between endpoints.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Nombre      string `json:"nombre"`
		Subscribers []Ref  `json:"subscribers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.Name = raw.Name
	if c.Name == "" {
		c.Name = raw.Nombre
	}
	c.Subscribers = c.Subscribers[:0]
	for _, s := range raw.Subscribers {
		c.Subscribers = append(c.Subscribers, string(s))
	}
	return nil
}

// Emergency is a report tied to a channel.
type Emergency struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Channel     Ref     `json:"channel"`
	Reporter    Ref     `json:"reporter"`
	Images      []Image `json:"images,omitempty"`
}

// Ref is an identifier the server may send as a number, a string or null.
type Ref string

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("ref: %w", err)
	}
	*r = Ref(n.String())
	return nil
}

// Int64 parses the ref as a numeric id.
func (r Ref) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(r), 10, 64)
	return n, err == nil
}

// Image is an attachment reference: either a URL or an inline payload.
type Image struct {
	URL string `json:"url"`
}

// UnmarshalJSON accepts a bare string or an object carrying "url" or "image".
func (i *Image) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &i.URL)
	}
	var obj struct {
		URL   string `json:"url"`
		Image string `json:"image"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	i.URL = obj.URL
	if i.URL == "" {
		i.URL = obj.Image
	}
	return nil
}

// IsInline reports whether the image is an embedded data payload rather than a link.
func (i Image) IsInline() bool {
	return strings.HasPrefix(i.URL, "data:")
}

// Ack is the acknowledgement returned by subscribe and unsubscribe.
type Ack struct {
	Message string
	Fields  map[string]any
}

// Attachment is an image file sent with a new report.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewEmergency is the create-report form. A nil ChannelID is sent as null.
type NewEmergency struct {
	Title       string
	Description string
	ChannelID   *int64
	ReporterID  string
	Images      []Attachment
}

// CreatedEmergency is the create-report response.
type CreatedEmergency struct {
	Message   string `json:"mensaje"`
	Emergency struct {
		ID int64 `json:"id"`
	} `json:"emergencia"`
}
