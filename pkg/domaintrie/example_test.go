package domaintrie_test

import (
	"fmt"

	"github.com/gilliginsisland/domainlookup/pkg/domaintrie"
)

func Example() {
	tree := domaintrie.New()
	_ = tree.Insert(".twitter.com")

	fmt.Println(tree.Lookup("api.twitter.com"))
	// Output: .twitter.com true
}

func ExampleTrie_Traverse() {
	tree := domaintrie.New()
	_ = tree.Insert(".twitter.com")
	_ = tree.Insert("api.twitter.com")

	for _, d := range []string{"api.twitter.com", "www.twitter.com", "twitter.com"} {
		m, ok := tree.Traverse(d)
		if !ok {
			fmt.Println(d, "no match")
			continue
		}
		fmt.Println(d, m.Kind, m.Suffix)
	}
	// Output:
	// api.twitter.com Exact api.twitter.com
	// www.twitter.com Wildcard twitter.com
	// twitter.com no match
}
