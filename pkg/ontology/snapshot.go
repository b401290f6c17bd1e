package ontology

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognee-oss/cognee-go/pkg/identity"
)

// Fuzzy-match tuning. Names below the length floor are matched exactly only;
// trigram Jaccard similarity must reach the threshold for a substitution.
const (
	FuzzyJaccardThreshold = 0.8
	MinFuzzyLength        = 4
	maxAncestorDepth      = 64
)

// snapshotFile is the YAML shape of an ontology snapshot on disk.
type snapshotFile struct {
	Classes []struct {
		Name   string `yaml:"name"`
		Parent string `yaml:"parent,omitempty"`
	} `yaml:"classes"`
	Individuals []struct {
		Name  string `yaml:"name"`
		Class string `yaml:"class,omitempty"`
	} `yaml:"individuals"`
	Relations []struct {
		Source       string `yaml:"source"`
		Relationship string `yaml:"relationship"`
		Target       string `yaml:"target"`
	} `yaml:"relations"`
}

// SnapshotResolver resolves terms against an in-memory ontology snapshot
// loaded from a YAML file. Matching is exact on the normalized name first,
// then fuzzy by trigram Jaccard similarity above FuzzyJaccardThreshold.
// Given one snapshot the resolver is fully deterministic.
type SnapshotResolver struct {
	classParent     map[string]string
	individualClass map[string]string
	relations       []Relation
	classNames      []string
	individualNames []string
}

// LoadSnapshot reads an ontology snapshot from path.
func LoadSnapshot(path string) (*SnapshotResolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ontology snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot builds a resolver from raw YAML snapshot bytes.
func ParseSnapshot(data []byte) (*SnapshotResolver, error) {
	var file snapshotFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse ontology snapshot: %w", err)
	}

	r := &SnapshotResolver{
		classParent:     make(map[string]string, len(file.Classes)),
		individualClass: make(map[string]string, len(file.Individuals)),
	}
	for _, c := range file.Classes {
		name := identity.NormalizeName(c.Name)
		if name == "" {
			continue
		}
		r.classParent[name] = identity.NormalizeName(c.Parent)
		r.classNames = append(r.classNames, name)
	}
	for _, ind := range file.Individuals {
		name := identity.NormalizeName(ind.Name)
		if name == "" {
			continue
		}
		r.individualClass[name] = identity.NormalizeName(ind.Class)
		r.individualNames = append(r.individualNames, name)
	}
	for _, rel := range file.Relations {
		r.relations = append(r.relations, Relation{
			Source:       identity.NormalizeName(rel.Source),
			Relationship: identity.NormalizeName(rel.Relationship),
			Target:       identity.NormalizeName(rel.Target),
		})
	}
	sort.Strings(r.classNames)
	sort.Strings(r.individualNames)
	return r, nil
}

// GetSubgraph implements Resolver. Unknown terms return an empty subgraph;
// a broken class hierarchy (parent cycle) returns ErrOntologyLookup.
func (r *SnapshotResolver) GetSubgraph(ctx context.Context, term string, category Category) (*Subgraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOntologyLookup, err)
	}

	name := identity.NormalizeName(term)
	switch category {
	case Classes:
		matched, ok := r.match(name, r.classNames)
		if !ok {
			return &Subgraph{}, nil
		}
		return r.classSubgraph(matched)
	case Individuals:
		matched, ok := r.match(name, r.individualNames)
		if !ok {
			return &Subgraph{}, nil
		}
		return r.individualSubgraph(matched)
	default:
		return nil, fmt.Errorf("%w: unknown category %q", ErrOntologyLookup, category)
	}
}

// classSubgraph walks the ancestor chain from the matched class upward.
func (r *SnapshotResolver) classSubgraph(matched string) (*Subgraph, error) {
	sub := &Subgraph{Matched: &matched}
	seen := map[string]bool{matched: true}

	current := matched
	for depth := 0; ; depth++ {
		if depth > maxAncestorDepth {
			return nil, fmt.Errorf("%w: class hierarchy cycle at %q", ErrOntologyLookup, current)
		}
		parent := r.classParent[current]
		if parent == "" {
			break
		}
		sub.Relations = append(sub.Relations, Relation{Source: current, Relationship: "is_a", Target: parent})
		if !seen[parent] {
			sub.Terms = append(sub.Terms, parent)
			seen[parent] = true
		}
		current = parent
	}
	return sub, nil
}

// individualSubgraph returns the individual's class membership, the class's
// ancestors, and any snapshot relations touching the individual.
func (r *SnapshotResolver) individualSubgraph(matched string) (*Subgraph, error) {
	sub := &Subgraph{Matched: &matched}
	seen := map[string]bool{matched: true}

	if class := r.individualClass[matched]; class != "" {
		sub.Relations = append(sub.Relations, Relation{Source: matched, Relationship: "is_a", Target: class})
		if !seen[class] {
			sub.Terms = append(sub.Terms, class)
			seen[class] = true
		}
		ancestors, err := r.classSubgraph(class)
		if err != nil {
			return nil, err
		}
		for _, term := range ancestors.Terms {
			if !seen[term] {
				sub.Terms = append(sub.Terms, term)
				seen[term] = true
			}
		}
		sub.Relations = append(sub.Relations, ancestors.Relations...)
	}

	for _, rel := range r.relations {
		if rel.Source != matched && rel.Target != matched {
			continue
		}
		sub.Relations = append(sub.Relations, rel)
		for _, term := range []string{rel.Source, rel.Target} {
			if !seen[term] {
				sub.Terms = append(sub.Terms, term)
				seen[term] = true
			}
		}
	}
	return sub, nil
}

// match finds the candidate for name: exact hit first, then the most similar
// candidate above the fuzzy threshold. Candidates are pre-sorted, so equal
// scores resolve to the lexicographically smallest name.
func (r *SnapshotResolver) match(name string, candidates []string) (string, bool) {
	idx := sort.SearchStrings(candidates, name)
	if idx < len(candidates) && candidates[idx] == name {
		return name, true
	}
	if len(name) < MinFuzzyLength {
		return "", false
	}

	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := trigramJaccard(name, candidate)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore >= FuzzyJaccardThreshold {
		return best, true
	}
	return "", false
}

// trigramShingles builds the 3-gram set of a name with spaces removed.
func trigramShingles(name string) map[string]bool {
	cleaned := strings.ReplaceAll(name, " ", "")
	set := make(map[string]bool)
	if len(cleaned) < 3 {
		if cleaned != "" {
			set[cleaned] = true
		}
		return set
	}
	for i := 0; i+3 <= len(cleaned); i++ {
		set[cleaned[i:i+3]] = true
	}
	return set
}

// trigramJaccard computes Jaccard similarity over trigram shingles.
func trigramJaccard(a, b string) float64 {
	sa := trigramShingles(a)
	sb := trigramShingles(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	intersection := 0
	for s := range sa {
		if sb[s] {
			intersection++
		}
	}
	union := len(sa) + len(sb) - intersection
	return float64(intersection) / float64(union)
}
