package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type LinkEntry struct {
	Label string
	Text  string
	URL   string
}

// SourceCategory - группа ссылок одного типа (соцсети, мессенджеры, утечки...).
// В JSON entries отдаются объектом "data" с сохранением порядка.
type SourceCategory struct {
	Name    string
	Icon    string
	Entries []LinkEntry
}

type linkBody struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (c *SourceCategory) Entry(label string) (LinkEntry, bool) {
	for _, e := range c.Entries {
		if e.Label == label {
			return e, true
		}
	}
	return LinkEntry{}, false
}

func (c SourceCategory) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	head, err := json.Marshal(struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}{c.Name, c.Icon})
	if err != nil {
		return nil, err
	}
	// head = {"name":..,"icon":..} -> дописываем data перед закрывающей скобкой
	buf.Write(head[:len(head)-1])
	buf.WriteString(`,"data":{`)

	for i, e := range c.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(linkBody{Text: e.Text, URL: e.URL})
		if err != nil {
			return nil, err
		}
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(body)
	}

	buf.WriteString("}}")
	return buf.Bytes(), nil
}

func (c *SourceCategory) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Icon string          `json:"icon"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	c.Name = raw.Name
	c.Icon = raw.Icon
	c.Entries = nil

	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category %q: data must be an object", raw.Name)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("category %q: unexpected token %v", raw.Name, tok)
		}
		var body linkBody
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("category %q, entry %q: %w", raw.Name, label, err)
		}
		c.Entries = append(c.Entries, LinkEntry{Label: label, Text: body.Text, URL: body.URL})
	}

	return nil
}
