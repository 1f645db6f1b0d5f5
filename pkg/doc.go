// Package pkg provides the libraries behind lehmer, a permutation engine.
//
// # Overview
//
// Every ordering of n items has a rank in [0, n!) in lexicographic order.
// lehmer converts between the two using the factorial number system (Lehmer
// codes): decode a rank into its permutation, encode a permutation back into
// its rank, and walk the whole space lazily in rank order. The pkg directory
// is organized into three areas:
//
//  1. [perm] - The engine (factorials, unranking, ranking, sequences, trees)
//  2. [query], [cache] - Validated, cached queries over string labels
//  3. [api], [client] - The HTTP API and its Go client
//
// # Architecture
//
// Every front end routes through one query runner:
//
//	CLI (internal/cli)   HTTP API (api)   Go client (client)
//	         ↘                ↓                ↙
//	              [query] Runner (validate, hooks)
//	                  ↓                  ↓
//	          [perm] engine        [cache] backends
//	                               (file, memory, redis, mongo)
//
// # Quick Start
//
// Decode a rank and walk a window:
//
//	import "github.com/matzehuels/lehmer/pkg/perm"
//
//	p, _ := perm.At(3, []string{"A", "B", "C"}) // [B C A]
//
//	seq, _ := perm.Range([]string{"A", "B", "C", "D"}, 10, 5)
//	for rank, p := range seq {
//	    fmt.Println(rank, p)
//	}
//
// # Main Packages
//
// [perm] - Factorial, At, AtMod, All, Lazy, Ranked, Range, Collect, RankOf,
// and decision-tree rendering (DOT and SVG via Graphviz).
//
// [query] - Runner executing factorial, at, page, rank and tree queries with
// caching and observability hooks.
//
// [cache] - Cache backends: file (CLI default), in-process LRU, Redis and
// MongoDB, plus the key scheme shared by all of them.
//
// [api] - JSON HTTP API on chi with request IDs and access logging.
//
// [client] - Go client for the API with the same method set as the Runner.
//
// [config] - TOML configuration file.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hooks for query, cache and HTTP events.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/perm/...        # The engine only
//	go test -run Example ./pkg/... # Examples only
//
// [perm]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/perm
// [query]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/query
// [cache]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/api
// [client]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/client
// [config]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/lehmer/pkg/buildinfo
package pkg
