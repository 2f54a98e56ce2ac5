// Package persona builds the query side of a relevance request.
//
// A Builder turns a free-form role and task into a core.PersonaContext
// holding a query string and a weighted keyword set. Known roles draw their
// keywords from a static Catalog; other roles fall back to the most
// frequent terms of the task. The package does no I/O.
package persona
