package graph

// Category10 is the ten-color categorical palette used for interaction types.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// MoviePalette colors nodes by movie.
var MoviePalette = []string{"#01FABF", "#FA01ED", "#5601FA", "#000"}

// DefaultFallbackColor is returned for values outside a scale's domain.
const DefaultFallbackColor = "#999"

// Ordinal maps a fixed domain of categorical values onto a palette.
// The i-th distinct domain value gets palette[i % len(palette)], so a domain
// larger than the palette repeats colors. Values outside the domain get the
// fallback color instead of growing the domain.
type Ordinal struct {
	domain   []string
	index    map[string]int
	palette  []string
	fallback string
}

// NewOrdinal builds a scale over the distinct values of domain, in order.
func NewOrdinal(domain, palette []string, fallback string) *Ordinal {
	o := &Ordinal{
		index:    make(map[string]int, len(domain)),
		palette:  append([]string(nil), palette...),
		fallback: fallback,
	}
	for _, v := range domain {
		if _, ok := o.index[v]; ok {
			continue
		}
		o.index[v] = len(o.domain)
		o.domain = append(o.domain, v)
	}
	return o
}

// Lookup returns the color for v and whether v is in the domain.
func (o *Ordinal) Lookup(v string) (string, bool) {
	i, ok := o.index[v]
	if !ok || len(o.palette) == 0 {
		return o.fallback, false
	}
	return o.palette[i%len(o.palette)], true
}

// Color returns the color for v, or the fallback color.
func (o *Ordinal) Color(v string) string {
	c, _ := o.Lookup(v)
	return c
}

// Domain returns the distinct values in first-seen order.
func (o *Ordinal) Domain() []string {
	return append([]string(nil), o.domain...)
}

// Fallback returns the color used for unknown values.
func (o *Ordinal) Fallback() string {
	return o.fallback
}

// Cycles reports whether the domain is larger than the palette, i.e. some
// colors are shared by more than one value.
func (o *Ordinal) Cycles() bool {
	return len(o.domain) > len(o.palette)
}
