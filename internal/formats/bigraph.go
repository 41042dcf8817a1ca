// Package formats reads the textual bigraph format consumed by the
// command-line front end and produces immutable Bigraph values.
//
// The format is line-oriented:
//
//	# pattern: a cell containing two linked sites
//	node cell, s1, s2
//	place cell s1     # containment: cell contains s1
//	place cell s2
//	link s1 s2        # connectivity between s1 and s2
//
// Vertex ids are assigned in declaration order. Every vertex referenced by
// a place or link statement must have been declared by a node statement.
package formats

import (
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"github.com/gitrdm/bigmatch/pkg/homomorphism"
)

type bigraphFile struct {
	Stmts []*statement `parser:"@@*"`
}

type statement struct {
	Nodes *nodeStmt  `parser:"  @@"`
	Place *placeStmt `parser:"| @@"`
	Link  *linkStmt  `parser:"| @@"`
}

type nodeStmt struct {
	Names []string `parser:"\"node\" @Ident (\",\" @Ident)*"`
}

type placeStmt struct {
	Parent string `parser:"\"place\" @Ident"`
	Child  string `parser:"@Ident"`
}

type linkStmt struct {
	A string `parser:"\"link\" @Ident"`
	B string `parser:"@Ident"`
}

var bigraphLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.\-]*`},
	{Name: "Punct", Pattern: `,`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})

var bigraphParser = participle.MustBuild[bigraphFile](
	participle.Lexer(bigraphLexer),
	participle.Elide("Comment", "Whitespace"),
)

// ReadBigraph parses a bigraph description from r. The filename is used
// only for error positions.
func ReadBigraph(r io.Reader, filename string) (*homomorphism.Bigraph, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}

	file, err := bigraphParser.ParseBytes(filename, src)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}

	var names []string
	seen := map[string]bool{}
	for _, st := range file.Stmts {
		if st.Nodes == nil {
			continue
		}
		for _, name := range st.Nodes.Names {
			if seen[name] {
				return nil, errors.Errorf("%s: duplicate node %q", filename, name)
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	bg := homomorphism.NewBigraph(names)
	resolve := func(name string) (int, error) {
		v, ok := bg.VertexID(name)
		if !ok {
			return 0, errors.Errorf("%s: edge references undeclared node %q", filename, name)
		}
		return v, nil
	}

	for _, st := range file.Stmts {
		switch {
		case st.Place != nil:
			parent, err := resolve(st.Place.Parent)
			if err != nil {
				return nil, err
			}
			child, err := resolve(st.Place.Child)
			if err != nil {
				return nil, err
			}
			bg.AddPlace(parent, child)
		case st.Link != nil:
			a, err := resolve(st.Link.A)
			if err != nil {
				return nil, err
			}
			b, err := resolve(st.Link.B)
			if err != nil {
				return nil, err
			}
			bg.AddLink(a, b)
		}
	}
	return bg, nil
}

// LoadBigraph reads a bigraph description from a file.
func LoadBigraph(path string) (*homomorphism.Bigraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open bigraph file")
	}
	defer f.Close()
	return ReadBigraph(f, path)
}
