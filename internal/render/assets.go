package render

import (
	"fmt"
	"sort"
	"strings"
)

// AssetOptions configure how references to exported asset files appear in
// answer bodies. Rewrites maps a verbatim reference found in the body to the
// asset's file name; an empty table disables rewriting.
type AssetOptions struct {
	Wikilinks          bool
	RelativeToMarkdown bool
	Rewrites           map[string]string
}

// AssetLink renders a Markdown reference to an asset file. Paths are vault
// relative (`assets/`) by default, or relative to the document's own
// directory (`../assets/`) when RelativeToMarkdown is set.
func AssetLink(name string, opts AssetOptions) string {
	prefix := "assets/"
	if opts.RelativeToMarkdown {
		prefix = "../assets/"
	}
	path := prefix + name

	if opts.Wikilinks {
		return "![[" + path + "]]"
	}
	return fmt.Sprintf("![Asset](%s)", path)
}

// RewriteAssets replaces each configured reference with a rendered asset
// link. Longer references win over shorter overlapping ones, so the table
// order does not matter.
func RewriteAssets(text string, opts AssetOptions) string {
	if len(opts.Rewrites) == 0 || text == "" {
		return text
	}

	refs := make([]string, 0, len(opts.Rewrites))
	for ref := range opts.Rewrites {
		if ref != "" {
			refs = append(refs, ref)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if len(refs[i]) != len(refs[j]) {
			return len(refs[i]) > len(refs[j])
		}
		return refs[i] < refs[j]
	})

	oldnew := make([]string, 0, len(refs)*2)
	for _, ref := range refs {
		oldnew = append(oldnew, ref, AssetLink(opts.Rewrites[ref], opts))
	}
	return strings.NewReplacer(oldnew...).Replace(text)
}
