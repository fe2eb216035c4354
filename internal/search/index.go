package search

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens/internal/dataset"
)

// Domain selects which side of the dataset a query runs against.
type Domain string

const (
	DomainSecurity Domain = "security"
	DomainFund     Domain = "fund"
)

// TickerResolver maps an issuer name to its exchange ticker, when known.
// A nil resolver disables ticker keys.
type TickerResolver func(issuerName string) (string, bool)

// entity is one searchable thing: a security (keyed by CUSIP) or a fund
// (keyed by accession number).
type entity struct {
	id    string          // CUSIP or accession number
	name  string          // display name
	norm  string          // normalized display name, the fuzzy-fallback key
	value decimal.Decimal // aggregate holding value, used for tie-breaking
	rows  []int           // holding row ids, sorted ascending
}

// domainIndex holds the entities of one domain with their token postings.
type domainIndex struct {
	entities []entity
	byToken  map[string][]int // normalized token -> entity indexes, sorted
	byID     map[string]int   // entity id -> entity index
}

// Index holds the two lookup mappings built from one snapshot. It is
// immutable after Build; a reload builds a fresh index.
type Index struct {
	securities domainIndex
	funds      domainIndex
}

// Build constructs the security and fund indexes from a snapshot. The result
// is deterministic: entity order, display names and posting lists do not
// depend on row processing order.
func Build(snap *dataset.Snapshot, resolver TickerResolver) *Index {
	return &Index{
		securities: buildSecurities(snap, resolver),
		funds:      buildFunds(snap),
	}
}

func buildSecurities(snap *dataset.Snapshot, resolver TickerResolver) domainIndex {
	type acc struct {
		name  string
		value decimal.Decimal
		rows  []int
	}
	byCUSIP := make(map[string]*acc)

	for id, h := range snap.Holdings {
		if h.IssuerName == "" || h.CUSIP == "" {
			continue
		}
		a, ok := byCUSIP[h.CUSIP]
		if !ok {
			a = &acc{name: h.IssuerName, value: decimal.Zero}
			byCUSIP[h.CUSIP] = a
		}
		// Deterministic display name: lexicographically smallest spelling
		// wins, independent of row order.
		if h.IssuerName < a.name {
			a.name = h.IssuerName
		}
		a.value = a.value.Add(h.Value)
		a.rows = append(a.rows, id)
	}

	idx := domainIndex{
		byToken: make(map[string][]int),
		byID:    make(map[string]int, len(byCUSIP)),
	}

	cusips := make([]string, 0, len(byCUSIP))
	for cusip := range byCUSIP {
		cusips = append(cusips, cusip)
	}
	sort.Strings(cusips)

	for _, cusip := range cusips {
		a := byCUSIP[cusip]
		sort.Ints(a.rows)

		e := entity{
			id:    cusip,
			name:  a.name,
			norm:  Normalize(a.name),
			value: a.value,
			rows:  a.rows,
		}
		pos := len(idx.entities)
		idx.entities = append(idx.entities, e)
		idx.byID[cusip] = pos

		tokens := Tokenize(a.name)
		tokens = append(tokens, Normalize(cusip))
		if resolver != nil {
			if ticker, ok := resolver(a.name); ok {
				tokens = append(tokens, Normalize(ticker))
			}
		}
		postTokens(idx.byToken, tokens, pos)
	}

	return idx
}

func buildFunds(snap *dataset.Snapshot) domainIndex {
	idx := domainIndex{
		byToken: make(map[string][]int),
		byID:    make(map[string]int, len(snap.Filings)),
	}

	accessions := make([]string, 0, len(snap.Filings))
	for accession := range snap.Filings {
		accessions = append(accessions, accession)
	}
	sort.Strings(accessions)

	for _, accession := range accessions {
		filing := snap.Filings[accession]
		if filing.ManagerName == "" {
			continue
		}

		rows := append([]int(nil), snap.ByAccession[accession]...)
		sort.Ints(rows)

		e := entity{
			id:    accession,
			name:  filing.ManagerName,
			norm:  Normalize(filing.ManagerName),
			value: snap.FundTotal(accession),
			rows:  rows,
		}
		pos := len(idx.entities)
		idx.entities = append(idx.entities, e)
		idx.byID[accession] = pos

		tokens := Tokenize(filing.ManagerName)
		tokens = append(tokens, Normalize(accession))
		postTokens(idx.byToken, tokens, pos)
	}

	return idx
}

// postTokens adds an entity to the posting list of each distinct token.
// Posting lists stay sorted because entities are appended in order.
func postTokens(byToken map[string][]int, tokens []string, pos int) {
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		byToken[tok] = append(byToken[tok], pos)
	}
}

// domain returns the index half for a query domain.
func (i *Index) domain(d Domain) *domainIndex {
	if d == DomainFund {
		return &i.funds
	}
	return &i.securities
}

// SecurityCount returns the number of distinct indexed securities.
func (i *Index) SecurityCount() int { return len(i.securities.entities) }

// FundCount returns the number of distinct indexed funds.
func (i *Index) FundCount() int { return len(i.funds.entities) }

// rows returns the holding row ids of an entity, or nil when the id is
// unknown in that domain.
func (i *Index) rows(d Domain, id string) []int {
	di := i.domain(d)
	pos, ok := di.byID[id]
	if !ok {
		return nil
	}
	return di.entities[pos].rows
}
