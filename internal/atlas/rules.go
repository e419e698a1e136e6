package atlas

// candidate carries the servant fields the rename rules may read or change.
type candidate struct {
	Name      string
	ClassName string
	Gender    string
	Rarity    int
}

// renameRule rewrites a candidate when its predicate matches. Rules run in
// declaration order and each sees the result of the ones before it.
type renameRule struct {
	name    string
	matches func(candidate) bool
	apply   func(*candidate)
}

var servantRules = []renameRule{
	{
		name:    "summer BB",
		matches: func(c candidate) bool { return c.Name == "BB" && c.Rarity == 5 },
		apply:   func(c *candidate) { c.Name = "BB (Summer)" },
	},
	{
		name:    "female Hakuno",
		matches: func(c candidate) bool { return c.Name == "Kishinami Hakuno" && c.Gender == "female" },
		apply:   func(c *candidate) { c.Name = "Kishinami Hakunon" },
	},
	{
		name:    "summer Ereshkigal",
		matches: func(c candidate) bool { return c.Name == "Ereshkigal" && c.ClassName == "beastEresh" },
		apply: func(c *candidate) {
			c.Name = "Ereshkigal (Summer)"
			c.ClassName = "Beast"
		},
	},
}

// applyRules runs rules against c and returns the names of those that matched.
func applyRules(c *candidate, rules []renameRule) []string {
	var applied []string
	for _, rule := range rules {
		if rule.matches(*c) {
			rule.apply(c)
			applied = append(applied, rule.name)
		}
	}
	return applied
}
