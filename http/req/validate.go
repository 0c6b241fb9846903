package req

import "strings"

// Validate checks in against gs, context by context.
//
// Contexts are validated in the order of Contexts.
// The first Context failing returns an [*InvalidParams]; the rest are not checked.
// A Context without any Group declared always passes.
func Validate(gs Groups, in Input) error {
	for _, c := range Contexts {
		groups := gs.For(c)
		if len(groups) == 0 {
			continue
		}

		if c == Body {
			if items, ok := in.Items(); ok {
				if err := validateItems(groups, items, !in.FormBody); err != nil {
					return err
				}

				continue
			}
		}

		values := in.Values(c)
		if c == Headers {
			values = headerView(groups, values)
		}

		if err := validateValues(c, groups, values, c == Body && !in.FormBody); err != nil {
			return err
		}
	}

	return nil
}

// validateValues resolves the Group values satisfy and checks it.
// decoded values keep their JSON types.
func validateValues(c Context, groups []Group, values map[string]any, decoded bool) *InvalidParams {
	res := Resolve(groups, values)
	check := res.Check
	if decoded {
		check = res.CheckDecoded
	}

	missing, invalidType := check(values)
	if len(missing) == 0 && len(invalidType) == 0 {
		return nil
	}

	return &InvalidParams{Context: c, Missing: missing, InvalidType: invalidType}
}

// validateItems checks each item against the BODY groups, minus the items field itself,
// stopping at the first item failing.
func validateItems(groups []Group, items []any, decoded bool) error {
	itemGroups := make([]Group, len(groups))
	for i, g := range groups {
		itemGroups[i] = g.without(ItemsField)
	}

	for i, item := range items {
		values, _ := item.(map[string]any)
		if err := validateValues(Body, itemGroups, values, decoded); err != nil {
			err.Item = i + 1
			return err
		}
	}

	return nil
}

// headerView keys the header values under the names properties are declared with,
// as header names are case-insensitive.
func headerView(groups []Group, headers map[string]any) map[string]any {
	view := make(map[string]any)
	for _, g := range groups {
		for _, p := range g.Properties {
			if v, ok := headers[strings.ToLower(p.Name)]; ok {
				view[p.Name] = v
			}
		}
	}

	return view
}
