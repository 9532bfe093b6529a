package match

// DefaultDomainThreshold is the similarity below which DomainSemanticMatcher
// drops a candidate from its results.
const DefaultDomainThreshold = 0.3

// domainBuckets partitions common programming-identifier words into
// curated concept categories.
var domainBuckets = map[string][]string{
	"authentication": {
		"auth", "login", "signin", "signout", "logout", "authenticate",
		"verify", "validate", "password", "credential", "token", "session",
		"user", "identity", "authorize", "permission", "access", "secure",
		"oauth", "jwt", "bearer", "refresh", "expire", "revoke",
	},
	"data_processing": {
		"process", "transform", "convert", "parse", "format", "serialize",
		"deserialize", "encode", "decode", "filter", "sort", "aggregate",
		"map", "reduce", "extract", "load", "save", "import", "export",
		"migrate", "backup", "restore", "sync", "merge", "split",
	},
	"configuration": {
		"config", "setting", "option", "parameter", "env", "environment",
		"preference", "property", "attribute", "flag", "switch", "toggle",
		"default", "override", "customize", "init", "setup", "bootstrap",
	},
	"api_development": {
		"api", "endpoint", "route", "handler", "controller", "service",
		"request", "response", "method", "action", "operation", "call",
		"invoke", "execute", "trigger", "dispatch", "delegate", "proxy",
	},
	"database": {
		"db", "database", "query", "select", "insert", "update", "delete",
		"table", "record", "row", "column", "field", "schema", "index",
		"constraint", "foreign", "primary", "unique", "transaction",
		"commit", "rollback", "connection", "pool", "migration", "seed",
	},
	"testing": {
		"test", "spec", "mock", "stub", "fixture", "assert", "verify",
		"check", "validate", "expect", "should", "describe", "before",
		"after", "setup", "teardown", "coverage", "unit", "integration",
		"e2e", "acceptance", "regression",
	},
	"file_operations": {
		"file", "read", "write", "open", "close", "save", "load", "upload",
		"download", "stream", "buffer", "path", "directory", "folder",
		"create", "delete", "move", "copy", "rename", "exists", "size",
		"extension",
	},
	"network": {
		"http", "https", "url", "uri", "request", "response", "client",
		"server", "socket", "connection", "port", "host", "domain", "ip",
		"dns", "proxy", "gateway", "router", "firewall",
	},
	"logging": {
		"log", "logger", "debug", "info", "warn", "error", "fatal", "trace",
		"level", "output", "console", "syslog", "timestamp", "message",
		"context", "metadata",
	},
	"caching": {
		"cache", "memoize", "store", "retrieve", "get", "set", "put",
		"clear", "expire", "ttl", "lru", "redis", "memcached", "invalidate",
		"refresh", "hit", "miss",
	},
	"validation": {
		"validate", "verify", "check", "assert", "ensure", "require",
		"sanitize", "clean", "filter", "escape", "encode", "decode",
		"format", "normalize", "standardize", "compliance", "rule",
	},
	"error_handling": {
		"error", "exception", "catch", "throw", "raise", "handle",
		"recover", "fallback", "retry", "timeout", "abort", "cancel",
		"rollback", "cleanup", "finally", "ensure", "safe",
	},
	"security": {
		"security", "encrypt", "decrypt", "hash", "salt", "sign", "verify",
		"certificate", "key", "secret", "password", "token", "permission",
		"role", "access", "audit", "compliance",
	},
	"performance": {
		"performance", "optimize", "speed", "fast", "slow", "benchmark",
		"profile", "measure", "time", "duration", "latency", "throughput",
		"memory", "cpu", "resource", "efficient", "bottleneck",
	},
}

// DomainSemanticMatcher scores identifiers by the Jaccard overlap of the
// concept buckets their constituent words fall into, boosted when query
// and candidate land in exactly the same bucket set.
type DomainSemanticMatcher struct {
	reverse map[string][]string // word -> every bucket listing it
}

// NewDomainSemanticMatcher builds a matcher over the built-in bucket
// dictionary.
func NewDomainSemanticMatcher() *DomainSemanticMatcher {
	reverse := make(map[string][]string)
	for bucket, words := range domainBuckets {
		for _, w := range words {
			reverse[w] = append(reverse[w], bucket)
		}
	}
	return &DomainSemanticMatcher{reverse: reverse}
}

// Categories returns the set of concept buckets an identifier's words
// fall into.
func (m *DomainSemanticMatcher) Categories(identifier string) map[string]struct{} {
	categories := make(map[string]struct{})
	for _, word := range splitIdentifier(identifier) {
		for _, bucket := range m.reverse[word] {
			categories[bucket] = struct{}{}
		}
	}
	return categories
}

// Similarity returns the Jaccard similarity of query's and identifier's
// bucket sets in [0, 1], boosted by 0.3 when the sets are identical and
// non-empty.
func (m *DomainSemanticMatcher) Similarity(query, identifier string) float64 {
	queryCats := m.Categories(query)
	idCats := m.Categories(identifier)
	if len(queryCats) == 0 || len(idCats) == 0 {
		return 0
	}

	intersection := 0
	for c := range queryCats {
		if _, ok := idCats[c]; ok {
			intersection++
		}
	}
	union := len(queryCats) + len(idCats) - intersection
	if union == 0 {
		return 0
	}
	similarity := float64(intersection) / float64(union)

	if sameSet(queryCats, idCats) {
		similarity += 0.3
		if similarity > 1 {
			similarity = 1
		}
	}
	return similarity
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Match scores every candidate in corpus against query, keeping only
// those at or above threshold (DefaultDomainThreshold if 0).
func (m *DomainSemanticMatcher) Match(query string, corpus []string, threshold float64) []Match {
	if threshold == 0 {
		threshold = DefaultDomainThreshold
	}

	var matches []Match
	for _, candidate := range corpus {
		similarity := m.Similarity(query, candidate)
		if similarity >= threshold {
			matches = append(matches, Match{Identifier: candidate, Score: clampScore(int(similarity * 100))})
		}
	}
	sortMatches(matches)
	return matches
}
