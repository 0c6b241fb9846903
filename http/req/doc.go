/*
Package req describes, as data, the inputs an HTTP request must carry
and validates an incoming request against that description.

# Schema

A [Group] names a [Context] - the query string, the path params, the headers or the body -
and the typed [Property] values expected in it.
Many Groups may share a Context.
Such Groups are alternatives: a request satisfying any one of them fully is accepted.

	req.Groups{
		{Context: req.Query, Properties: []req.Property{{Name: "value", Type: req.String}}},
		{Context: req.Query, Properties: []req.Property{{Name: "option", Type: req.String}}},
		{Context: req.Query, Properties: []req.Property{{Name: "x", Type: req.String}, {Name: "y", Type: req.String}}},
	}

# Resolution

For each Context, [Resolve] picks the first Group with at least one of its properties present.
When none has any, the last Group declared becomes the requirement.
Only the resolved Group is checked.

A body carrying a "values" array switches BODY into item mode:
every item is resolved and checked on its own, stopping at the first failing item.

# Errors

[Validate] returns an [*InvalidParams] whose message is the one sent to clients:

	Parameters 'x', 'y' were not found in query
	Parameters 'time' were not found in body and 'timestamp' have invalid type
	Parameters 'timestamp' were not found in body, item 2
	Parameters 'timestamp' have invalid type , item 2
*/
package req
