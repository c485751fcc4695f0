// Package registry caches remote container handles process-wide. A
// container is created and published at most once per name for the process
// lifetime; creation is serialized per name so concurrent first lookups
// cannot race into duplicate create calls, while lookups of unrelated
// names proceed independently.
package registry
