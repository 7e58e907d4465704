package catalog

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kitbuilder587/osint-finder/internal/domain"
)

//go:embed default.yaml
var defaultCatalog []byte

type Tier string

const (
	TierOpen   Tier = "open"
	TierClosed Tier = "closed"
)

func (t Tier) IsValid() bool {
	return t == TierOpen || t == TierClosed
}

type Category struct {
	Name    string           `yaml:"name"`
	Icon    string           `yaml:"icon"`
	Kind    domain.QueryKind `yaml:"kind"`
	Tier    Tier             `yaml:"tier"`
	Entries []Entry          `yaml:"entries"`
}

type Entry struct {
	Label string `yaml:"label"`
	Text  string `yaml:"text"`
	URL   string `yaml:"url"`
}

type Options struct {
	IncludeClosed bool
}

// Catalog - неизменяемый набор шаблонов ссылок. Безопасен для конкурентного использования.
type Catalog struct {
	categories    []Category
	includeClosed bool
}

func Default(opts Options) (*Catalog, error) {
	return Parse(defaultCatalog, opts)
}

func LoadFile(path string, opts Options) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data, opts)
}

func Parse(data []byte, opts Options) (*Catalog, error) {
	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories", domain.ErrInvalidCatalog)
	}

	for i, c := range doc.Categories {
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("%w: category #%d: %v", domain.ErrInvalidCatalog, i+1, err)
		}
	}

	return &Catalog{
		categories:    doc.Categories,
		includeClosed: opts.IncludeClosed,
	}, nil
}

func (c *Category) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("empty name")
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("%q: unknown kind %q", c.Name, c.Kind)
	}
	if !c.Tier.IsValid() {
		return fmt.Errorf("%q: unknown tier %q", c.Name, c.Tier)
	}
	for j, e := range c.Entries {
		if e.Label == "" || e.URL == "" {
			return fmt.Errorf("%q: entry #%d needs label and url", c.Name, j+1)
		}
	}
	return nil
}

// Generate подставляет запрос в шаблоны. Открытые категории идут раньше закрытых,
// внутри tier порядок как в файле. Ничего не экранируется, кроме {query_escaped}.
func (c *Catalog) Generate(q domain.SearchQuery) []domain.SourceCategory {
	r := placeholders(q)

	out := make([]domain.SourceCategory, 0, len(c.categories))
	for _, tier := range []Tier{TierOpen, TierClosed} {
		if tier == TierClosed && !c.includeClosed {
			continue
		}
		for _, cat := range c.categories {
			if cat.Kind != q.Kind || cat.Tier != tier {
				continue
			}

			sc := domain.SourceCategory{
				Name:    cat.Name,
				Icon:    cat.Icon,
				Entries: make([]domain.LinkEntry, 0, len(cat.Entries)),
			}
			for _, e := range cat.Entries {
				sc.Entries = append(sc.Entries, domain.LinkEntry{
					Label: e.Label,
					Text:  r.Replace(e.Text),
					URL:   r.Replace(e.URL),
				})
			}
			out = append(out, sc)
		}
	}

	return out
}

func (c *Catalog) Categories() []Category {
	return c.categories
}

func placeholders(q domain.SearchQuery) *strings.Replacer {
	return strings.NewReplacer(
		"{query}", q.Raw,
		"{clean}", q.Normalized(),
		"{query_escaped}", EscapeQuery(q.Raw),
	)
}

// EscapeQuery кодирует всё кроме unreserved символов, пробел -> %20
func EscapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
