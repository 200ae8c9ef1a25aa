package artifact

import "strings"

// ResolveURL returns the download URL for name. An empty, "/", or unrendered
// template base href yields a relative all_pdb/ path.
func ResolveURL(baseHref, name string) string {
	if baseHref == "" || baseHref == "/" || strings.Contains(baseHref, "{{") {
		return DefaultDir + "/" + name
	}
	return baseHref + DefaultDir + "/" + name
}

// Linker returns a ResolveURL closure bound to baseHref.
func Linker(baseHref string) func(name string) string {
	return func(name string) string {
		return ResolveURL(baseHref, name)
	}
}
