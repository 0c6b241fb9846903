/*
Package check runs the ordered authorization and enrichment steps guarding an endpoint.

A [Check] approves a request, attaching a payload handlers can read,
or rejects it with a status code and payload sent back verbatim.
A rejection without a reason answers 401 with

	{"message":"Unknown reason"}

A [Pipeline] applies its checks strictly in order, stopping at the first rejection.
A check returning an error or panicking stops the Pipeline with an [*UnexpectedError].
When every check approves, their payloads are collected into [Results] keyed by check identifier.

Checks are built from data through a [Registry] mapping variant names to factories.
*/
package check
