package persona

import (
	"cmp"
	"slices"
	"strings"
)

// PatternWeight is the weight of a section pattern the task mentions.
const PatternWeight = 0.9

// Profile describes a known persona role.
type Profile struct {
	Role   string // display label
	Domain string
	// Keywords are the role's core terms. They always apply, so they are
	// kept short: every term counts towards the keyword overlap denominator.
	Keywords map[string]float64
	// SectionPatterns apply only when the task mentions them.
	SectionPatterns []string
}

// Weights returns the weighted keyword set of the profile. Terms are
// lowercased and weights clamped to [0,1].
func (p *Profile) Weights() map[string]float64 {
	out := make(map[string]float64, len(p.Keywords))
	for k, w := range p.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		merge(out, k, w)
	}
	return out
}

// Terms lists the core keywords by descending weight, then name.
func (p *Profile) Terms() []string {
	terms := make([]string, 0, len(p.Keywords))
	for k := range p.Keywords {
		terms = append(terms, k)
	}
	slices.SortFunc(terms, func(a, b string) int {
		if c := cmp.Compare(p.Keywords[b], p.Keywords[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return terms
}

// Catalog is a read-only set of persona profiles keyed by normalized role.
// A Catalog is safe for concurrent use once built.
type Catalog struct {
	profiles map[string]*Profile
	names    []string // sorted normalized names
	generic  *Profile
}

// NewCatalog builds a catalog from profiles. The generic profile is used
// when a request has nothing else to go on.
func NewCatalog(profiles []Profile, generic Profile) *Catalog {
	c := &Catalog{
		profiles: make(map[string]*Profile, len(profiles)),
		generic:  &generic,
	}
	for i := range profiles {
		p := profiles[i]
		name := normalizeRole(p.Role)
		if name == "" {
			continue
		}
		if _, exists := c.profiles[name]; !exists {
			c.names = append(c.names, name)
		}
		c.profiles[name] = &p
	}
	slices.Sort(c.names)
	return c
}

// Lookup finds the profile for role. An exact match on the normalized label
// wins; otherwise a catalog role appearing as whole words inside role (or
// the reverse) matches, preferring the longest catalog name.
func (c *Catalog) Lookup(role string) (*Profile, bool) {
	name := normalizeRole(role)
	if name == "" {
		return nil, false
	}
	if p, ok := c.profiles[name]; ok {
		return p, true
	}

	padded := " " + name + " "
	best := ""
	for _, candidate := range c.names {
		inner := " " + candidate + " "
		matched := strings.Contains(padded, inner)
		if !matched && len(name) >= minTokenLength {
			matched = strings.Contains(inner, padded)
		}
		if matched && len(candidate) > len(best) {
			best = candidate
		}
	}
	if best == "" {
		return nil, false
	}
	return c.profiles[best], true
}

// Generic returns the fallback profile.
func (c *Catalog) Generic() *Profile {
	return c.generic
}

// Roles lists the display labels of every profile in name order.
func (c *Catalog) Roles() []string {
	out := make([]string, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.profiles[name].Role)
	}
	return out
}

// Profiles returns every profile in name order.
func (c *Catalog) Profiles() []*Profile {
	out := make([]*Profile, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.profiles[name])
	}
	return out
}

// taskPattern adds section patterns when any trigger word appears in the task.
type taskPattern struct {
	triggers []string
	patterns []string
}

var taskPatterns = []taskPattern{
	{[]string{"form", "forms", "fillable"}, []string{"form", "fillable", "interactive", "field"}},
	{[]string{"signature", "sign", "signing"}, []string{"signature", "sign", "esign", "electronic"}},
	{[]string{"vegetarian", "buffet"}, []string{"vegetarian", "buffet", "menu", "recipe"}},
	{[]string{"analysis", "metrics"}, []string{"analysis", "metrics", "kpi", "performance"}},
}

var defaultCatalog = NewCatalog([]Profile{
	{
		Role:     "HR Professional",
		Domain:   "hr",
		Keywords: map[string]float64{"onboarding": 0.9, "compliance": 0.8, "employee": 0.7, "policy": 0.6},
		SectionPatterns: []string{
			"onboarding", "compliance", "recruitment", "training", "policy", "form",
			"fillable", "signature", "contract", "agreement", "workflow", "human resources",
		},
	},
	{
		Role:     "Food Contractor",
		Domain:   "food",
		Keywords: map[string]float64{"menu": 0.9, "recipe": 0.8, "ingredients": 0.7, "catering": 0.6},
		SectionPatterns: []string{
			"recipe", "ingredients", "preparation", "cooking", "menu", "vegetarian",
			"buffet", "meal", "dish", "cuisine", "dietary", "nutrition",
		},
	},
	{
		Role:     "Data Analyst",
		Domain:   "data",
		Keywords: map[string]float64{"revenue": 0.9, "trend": 0.8, "metric": 0.7},
		SectionPatterns: []string{
			"analysis", "metrics", "kpi", "reporting", "dashboard",
			"insights", "performance", "statistics", "trends",
		},
	},
	{
		Role:     "Business Analyst",
		Domain:   "business",
		Keywords: map[string]float64{"requirements": 0.9, "process": 0.8, "stakeholder": 0.7, "strategy": 0.6},
		SectionPatterns: []string{
			"strategy", "process", "requirements", "stakeholder", "workflow", "efficiency",
			"optimization", "implementation", "feasibility", "gap analysis", "change management",
		},
	},
	{
		Role:     "Researcher",
		Domain:   "research",
		Keywords: map[string]float64{"methodology": 0.9, "findings": 0.8, "hypothesis": 0.7, "literature": 0.6},
		SectionPatterns: []string{
			"methodology", "findings", "literature", "hypothesis", "experiment",
			"conclusion", "references", "analysis", "data collection",
		},
	},
	{
		Role:     "Legal Counsel",
		Domain:   "legal",
		Keywords: map[string]float64{"contract": 0.9, "liability": 0.8, "compliance": 0.7, "regulation": 0.6},
		SectionPatterns: []string{
			"legal", "contract", "compliance", "regulation", "liability", "agreement", "terms",
			"conditions", "policy", "governance", "litigation", "intellectual property",
		},
	},
	{
		Role:     "Technical Writer",
		Domain:   "technical",
		Keywords: map[string]float64{"documentation": 0.9, "procedure": 0.8, "guide": 0.7, "reference": 0.6},
		SectionPatterns: []string{
			"documentation", "manual", "guide", "procedure", "instruction", "specification",
			"tutorial", "reference", "api", "configuration", "deployment",
		},
	},
	{
		Role:     "Student",
		Domain:   "education",
		Keywords: map[string]float64{"study": 0.9, "course": 0.8, "exam": 0.7, "assignment": 0.6},
		SectionPatterns: []string{
			"study", "learning", "assignment", "research", "notes", "lecture",
			"course", "exam", "project", "homework", "syllabus",
		},
	},
	{
		Role:     "Consultant",
		Domain:   "consulting",
		Keywords: map[string]float64{"recommendation": 0.9, "assessment": 0.8, "strategy": 0.7, "framework": 0.6},
		SectionPatterns: []string{
			"strategy", "assessment", "recommendation", "solution", "methodology",
			"framework", "implementation", "deliverable", "best practice",
		},
	},
	{
		Role:     "Manager",
		Domain:   "management",
		Keywords: map[string]float64{"planning": 0.9, "budget": 0.8, "team": 0.7, "milestone": 0.6},
		SectionPatterns: []string{
			"management", "team", "leadership", "performance", "planning", "project",
			"budget", "resource", "communication", "deadline", "milestone", "stakeholder",
		},
	},
}, Profile{
	Role:            "General User",
	Domain:          "general",
	Keywords:        map[string]float64{"overview": 0.8, "summary": 0.8, "information": 0.6, "details": 0.6},
	SectionPatterns: []string{"analysis", "content", "document", "section"},
})

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
