// Package searcher provides ranked name lookup over the in-memory stub
// index. It backs the lookup tool's fuzzy fallback: when an exact query
// misses, the searcher scores every indexed name (exact > prefix >
// substring > case-insensitive) and returns the best hits.
package searcher
