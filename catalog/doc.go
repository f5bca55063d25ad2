// Package catalog holds the static registry of recipe operations and their
// argument schemas.
//
// A Catalog is loaded once at startup and never mutated. Entries keep the key
// order of the source document, which matters because name resolution is
// case- and punctuation-insensitive and an ambiguous lookup picks the first
// entry in catalog order:
//
//	cat, err := catalog.LoadFile("OperationConfig.json")
//	if err != nil {
//	    return err
//	}
//	entry, ok := cat.Resolve("from base-64") // "From Base64"
//
// # Normalization
//
// Normalize lower-cases a name and strips every character outside [a-z0-9].
// Two catalog names that normalize to the same key are not rejected; Resolve
// returns the first, Match returns both.
//
// # Search
//
// Index registers every operation in a tooldiscovery in-memory index so
// callers can find operations by keyword instead of exact name.
package catalog
