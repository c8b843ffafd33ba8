// Package demofeed produces the message stream a prism node sends to its
// visualization: block insertions and ledger updates, serialized as
// externally tagged JSON objects with snake_case fields.
package demofeed

import (
	"encoding/json"
	"strings"

	sha256 "github.com/minio/sha256-simd"
	"lukechampine.com/frand"

	"prismview.dev/pkg/encoders/hex"
	"prismview.dev/pkg/utils/chk"
)

// ProposerBlock announces a new proposer chain block.
type ProposerBlock struct {
	Id              string   `json:"id"`
	Parent          string   `json:"parent"`
	TransactionRefs []string `json:"transaction_refs"`
	ProposerRefs    []string `json:"proposer_refs"`
}

// VoterBlock announces a new block on one of the voter chains.
type VoterBlock struct {
	Id          string   `json:"id"`
	Parent      string   `json:"parent"`
	Chain       uint16   `json:"chain"`
	VoterParent string   `json:"voter_parent"`
	Votes       []string `json:"votes"`
}

// TransactionBlock announces a new transaction block.
type TransactionBlock struct {
	Id     string `json:"id"`
	Parent string `json:"parent"`
}

// UpdatedLedger announces proposer blocks entering or leaving the ledger.
type UpdatedLedger struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Msg is the externally tagged feed envelope: exactly one field is set.
type Msg struct {
	ProposerBlock    *ProposerBlock    `json:"ProposerBlock,omitempty"`
	VoterBlock       *VoterBlock       `json:"VoterBlock,omitempty"`
	TransactionBlock *TransactionBlock `json:"TransactionBlock,omitempty"`
	UpdatedLedger    *UpdatedLedger    `json:"UpdatedLedger,omitempty"`
}

// Marshal renders the message as indented JSON, the way the prism node
// serializes its feed.
func (m *Msg) Marshal() (b []byte, err error) {
	return json.MarshalIndent(m, "", "  ")
}

// UpdateLedgerMsg renders a ledger update, or nothing when there is no
// change to report.
func UpdateLedgerMsg(added, removed []string) (b []byte, err error) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	if added == nil {
		added = []string{}
	}
	if removed == nil {
		removed = []string{}
	}
	m := &Msg{UpdatedLedger: &UpdatedLedger{Added: added, Removed: removed}}
	return m.Marshal()
}

// NewId returns a random block hash: sha256 of random bytes, hex encoded.
func NewId() (id string) {
	h := sha256.Sum256(frand.Bytes(32))
	return hex.Enc(h[:])
}

// Genesis is the all-zero parent hash the generated chains start from.
var Genesis = strings.Repeat("0", 64)

// Generator produces a plausible random block stream for demos and load
// testing. It keeps just enough chain state for the references between
// blocks to make sense to a visualization.
type Generator struct {
	proposerTip string
	voterTips   []string
	pendingTxs  []string
	unconfirmed []string
}

// NewGenerator creates a Generator with the given number of voter chains.
func NewGenerator(chains int) (g *Generator) {
	if chains < 1 {
		chains = 1
	}
	g = &Generator{proposerTip: Genesis}
	for i := 0; i < chains; i++ {
		g.voterTips = append(g.voterTips, Genesis)
	}
	return
}

// Next returns the next feed message.
func (g *Generator) Next() (b []byte) {
	var m *Msg
	switch n := frand.Intn(10); {
	case n < 4:
		m = g.transactionBlock()
	case n < 7:
		m = g.voterBlock()
	case n < 9:
		m = g.proposerBlock()
	default:
		if m = g.ledgerUpdate(); m == nil {
			m = g.transactionBlock()
		}
	}
	var err error
	if b, err = m.Marshal(); chk.E(err) {
		return
	}
	return
}

func (g *Generator) transactionBlock() (m *Msg) {
	id := NewId()
	g.pendingTxs = append(g.pendingTxs, id)
	return &Msg{
		TransactionBlock: &TransactionBlock{Id: id, Parent: g.proposerTip},
	}
}

func (g *Generator) voterBlock() (m *Msg) {
	chain := frand.Intn(len(g.voterTips))
	id := NewId()
	vb := &VoterBlock{
		Id:          id,
		Parent:      g.proposerTip,
		Chain:       uint16(chain),
		VoterParent: g.voterTips[chain],
		Votes:       []string{g.proposerTip},
	}
	g.voterTips[chain] = id
	return &Msg{VoterBlock: vb}
}

func (g *Generator) proposerBlock() (m *Msg) {
	id := NewId()
	refs := g.pendingTxs
	if refs == nil {
		refs = []string{}
	}
	g.pendingTxs = nil
	pb := &ProposerBlock{
		Id:              id,
		Parent:          g.proposerTip,
		TransactionRefs: refs,
		ProposerRefs:    []string{},
	}
	g.proposerTip = id
	g.unconfirmed = append(g.unconfirmed, id)
	return &Msg{ProposerBlock: pb}
}

func (g *Generator) ledgerUpdate() (m *Msg) {
	if len(g.unconfirmed) == 0 {
		return
	}
	added := g.unconfirmed
	g.unconfirmed = nil
	return &Msg{UpdatedLedger: &UpdatedLedger{
		Added: added, Removed: []string{},
	}}
}
