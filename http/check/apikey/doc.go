/*
Package apikey provides a check approving requests carrying a known, enabled API key.

Keys are looked up through a [Store]:
[*PostgresStore] reads them from the api_credentials table,
[*CacheStore] caches another Store's lookups in Redis
and [*MemoryStore] keeps them in process, which suits tests and demos.
*/
package apikey
