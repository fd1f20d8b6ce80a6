package contract

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"math"

	"tokengov/sdk"
)

// Deterministic binary codec for stored records. Field order is fixed and
// every encoder has a matching decoder below; bump the record version byte if
// layout ever changes.

const recordVersion byte = 1

type binWriter struct {
	buf bytes.Buffer
}

// newWriter spins up a fresh writer so no bytes leak between encodes.
func newWriter() *binWriter {
	w := &binWriter{}
	w.buf.WriteByte(recordVersion)
	return w
}

// encoded returns the record as base64 text, since the host KV stores strings.
func (w *binWriter) encoded() string {
	return base64.StdEncoding.EncodeToString(w.buf.Bytes())
}

// writeBool squashes bools into a single byte flag.
func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// writeUint64 writes big endian numbers so tooling can read them without
// guessing.
func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// writeInt64 reuses the uint routine since casting keeps the sign bits intact.
func (w *binWriter) writeInt64(v int64) {
	w.writeUint64(uint64(v))
}

// writeVarUint uses varints to keep counts and lengths compact.
func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeAmount keeps amount encoding consistent via a single call site.
func (w *binWriter) writeAmount(v Amount) {
	w.writeUint64(uint64(v))
}

func (w *binWriter) writeBps(v Bps) {
	w.writeVarUint(uint64(v))
}

// writeString prefixes its length then dumps UTF-8 directly.
func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddress(a sdk.Address) {
	w.writeString(a.String())
}

type binReader struct {
	r *bytes.Reader
}

var errCodec = errors.New("corrupt record")

func newReader(data string) (*binReader, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errCodec
	}
	r := &binReader{r: bytes.NewReader(raw)}
	ver, err := r.r.ReadByte()
	if err != nil || ver != recordVersion {
		return nil, errCodec
	}
	return r, nil
}

func (r *binReader) readBool() (bool, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return false, errCodec
	}
	return b == 1, nil
}

func (r *binReader) readUint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.r, b[:]); err != nil {
		return 0, errCodec
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

func (r *binReader) readInt64() (int64, error) {
	v, err := r.readUint64()
	return int64(v), err
}

func (r *binReader) readVarUint() (uint64, error) {
	v, err := binary.ReadUvarint(r.r)
	if err != nil {
		return 0, errCodec
	}
	return v, nil
}

func (r *binReader) readAmount() (Amount, error) {
	v, err := r.readUint64()
	return Amount(v), err
}

func (r *binReader) readBps() (Bps, error) {
	v, err := r.readVarUint()
	return Bps(v), err
}

func (r *binReader) readString() (string, error) {
	n, err := r.readVarUint()
	if err != nil || n > math.MaxInt32 {
		return "", errCodec
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return "", errCodec
	}
	return string(buf), nil
}

func (r *binReader) readAddress() (sdk.Address, error) {
	s, err := r.readString()
	return sdk.Address(s), err
}

// -----------------------------------------------------------------------------
// Record encoders/decoders
// -----------------------------------------------------------------------------

func encodeConfig(c *Config) string {
	w := newWriter()
	w.writeUint64(c.Version)
	w.writeAmount(c.TotalSupplyCap)
	w.writeAmount(c.InitialBlockRwd)
	w.writeUint64(c.HalvingInterval)
	w.writeBps(c.Alloc.DexBps)
	w.writeBps(c.Alloc.TeamBps)
	w.writeBps(c.Alloc.DaoBps)
	w.writeVarUint(uint64(len(c.Team)))
	for _, m := range c.Team {
		w.writeAddress(m.Identity)
		w.writeBps(m.Weight)
	}
	w.writeBps(c.FeeBps)
	w.writeBps(c.RatioToleranceBps)
	w.writeAmount(c.ProposalThreshold)
	w.writeBps(c.QuorumBps)
	w.writeBps(c.ApprovalBps)
	w.writeInt64(c.MinVotingPeriod)
	w.writeInt64(c.MaxVotingPeriod)
	w.writeInt64(c.TimelockDuration)
	w.writeInt64(c.ExecutionWindow)
	w.writeBool(c.BuybackBurn)
	return w.encoded()
}

func decodeConfig(data string) (*Config, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	if c.Version, err = r.readUint64(); err != nil {
		return nil, err
	}
	if c.TotalSupplyCap, err = r.readAmount(); err != nil {
		return nil, err
	}
	if c.InitialBlockRwd, err = r.readAmount(); err != nil {
		return nil, err
	}
	if c.HalvingInterval, err = r.readUint64(); err != nil {
		return nil, err
	}
	if c.Alloc.DexBps, err = r.readBps(); err != nil {
		return nil, err
	}
	if c.Alloc.TeamBps, err = r.readBps(); err != nil {
		return nil, err
	}
	if c.Alloc.DaoBps, err = r.readBps(); err != nil {
		return nil, err
	}
	count, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	c.Team = make([]TeamMember, 0, count)
	for i := uint64(0); i < count; i++ {
		var m TeamMember
		if m.Identity, err = r.readAddress(); err != nil {
			return nil, err
		}
		if m.Weight, err = r.readBps(); err != nil {
			return nil, err
		}
		c.Team = append(c.Team, m)
	}
	if c.FeeBps, err = r.readBps(); err != nil {
		return nil, err
	}
	if c.RatioToleranceBps, err = r.readBps(); err != nil {
		return nil, err
	}
	if c.ProposalThreshold, err = r.readAmount(); err != nil {
		return nil, err
	}
	if c.QuorumBps, err = r.readBps(); err != nil {
		return nil, err
	}
	if c.ApprovalBps, err = r.readBps(); err != nil {
		return nil, err
	}
	if c.MinVotingPeriod, err = r.readInt64(); err != nil {
		return nil, err
	}
	if c.MaxVotingPeriod, err = r.readInt64(); err != nil {
		return nil, err
	}
	if c.TimelockDuration, err = r.readInt64(); err != nil {
		return nil, err
	}
	if c.ExecutionWindow, err = r.readInt64(); err != nil {
		return nil, err
	}
	if c.BuybackBurn, err = r.readBool(); err != nil {
		return nil, err
	}
	return c, nil
}

func encodeIssuance(is *IssuanceState) string {
	w := newWriter()
	w.writeUint64(is.StartHeight)
	w.writeUint64(is.LastMintHeight)
	w.writeBool(is.MintedAny)
	w.writeAmount(is.CumulativeMinted)
	w.writeAmount(is.TotalBurned)
	return w.encoded()
}

func decodeIssuance(data string) (*IssuanceState, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	is := &IssuanceState{}
	if is.StartHeight, err = r.readUint64(); err != nil {
		return nil, err
	}
	if is.LastMintHeight, err = r.readUint64(); err != nil {
		return nil, err
	}
	if is.MintedAny, err = r.readBool(); err != nil {
		return nil, err
	}
	if is.CumulativeMinted, err = r.readAmount(); err != nil {
		return nil, err
	}
	if is.TotalBurned, err = r.readAmount(); err != nil {
		return nil, err
	}
	return is, nil
}

func encodePool(p *LiquidityPool) string {
	w := newWriter()
	w.writeAmount(p.ReserveA)
	w.writeAmount(p.ReserveB)
	w.writeAmount(p.TotalShares)
	return w.encoded()
}

func decodePool(data string) (*LiquidityPool, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	p := &LiquidityPool{}
	if p.ReserveA, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.ReserveB, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.TotalShares, err = r.readAmount(); err != nil {
		return nil, err
	}
	return p, nil
}

func encodeProposal(p *Proposal) string {
	w := newWriter()
	w.writeUint64(p.ID)
	w.writeString(p.Title)
	w.writeString(p.Description)
	w.writeAddress(p.Proposer)
	w.writeInt64(p.CreatedAt)
	w.writeInt64(p.VotingEnd)
	w.writeInt64(p.ExecutionTime)
	w.buf.WriteByte(byte(p.Status))
	encodeActionInto(w, &p.Action)
	w.writeAmount(p.ForVotes)
	w.writeAmount(p.AgainstVotes)
	w.writeAmount(p.AbstainVotes)
	w.writeUint64(p.VoterCount)
	w.writeUint64(p.ConfigVersion)
	w.writeString(p.TxID)
	return w.encoded()
}

func decodeProposal(data string) (*Proposal, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	p := &Proposal{}
	if p.ID, err = r.readUint64(); err != nil {
		return nil, err
	}
	if p.Title, err = r.readString(); err != nil {
		return nil, err
	}
	if p.Description, err = r.readString(); err != nil {
		return nil, err
	}
	if p.Proposer, err = r.readAddress(); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	if p.VotingEnd, err = r.readInt64(); err != nil {
		return nil, err
	}
	if p.ExecutionTime, err = r.readInt64(); err != nil {
		return nil, err
	}
	statusByte, err := r.r.ReadByte()
	if err != nil {
		return nil, errCodec
	}
	p.Status = ProposalStatus(statusByte)
	if err := decodeActionInto(r, &p.Action); err != nil {
		return nil, err
	}
	if p.ForVotes, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.AgainstVotes, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.AbstainVotes, err = r.readAmount(); err != nil {
		return nil, err
	}
	if p.VoterCount, err = r.readUint64(); err != nil {
		return nil, err
	}
	if p.ConfigVersion, err = r.readUint64(); err != nil {
		return nil, err
	}
	if p.TxID, err = r.readString(); err != nil {
		return nil, err
	}
	return p, nil
}

func encodeActionInto(w *binWriter, a *Action) {
	w.buf.WriteByte(byte(a.Kind))
	switch a.Kind {
	case ActionParamUpdate:
		w.writeString(a.Param)
		w.writeUint64(a.Value)
	case ActionTeamUpdate:
		w.writeVarUint(uint64(len(a.Team)))
		for _, m := range a.Team {
			w.writeAddress(m.Identity)
			w.writeBps(m.Weight)
		}
	case ActionBuyback:
		w.writeAmount(a.Amount)
		w.writeAmount(a.MinOut)
	case ActionAdminAdd, ActionAdminRemove:
		w.writeAddress(a.Admin)
	case ActionNone:
	}
}

func decodeActionInto(r *binReader, a *Action) error {
	kindByte, err := r.r.ReadByte()
	if err != nil {
		return errCodec
	}
	a.Kind = ActionKind(kindByte)
	switch a.Kind {
	case ActionParamUpdate:
		if a.Param, err = r.readString(); err != nil {
			return err
		}
		if a.Value, err = r.readUint64(); err != nil {
			return err
		}
	case ActionTeamUpdate:
		count, err := r.readVarUint()
		if err != nil {
			return err
		}
		a.Team = make([]TeamMember, 0, count)
		for i := uint64(0); i < count; i++ {
			var m TeamMember
			if m.Identity, err = r.readAddress(); err != nil {
				return err
			}
			if m.Weight, err = r.readBps(); err != nil {
				return err
			}
			a.Team = append(a.Team, m)
		}
	case ActionBuyback:
		if a.Amount, err = r.readAmount(); err != nil {
			return err
		}
		if a.MinOut, err = r.readAmount(); err != nil {
			return err
		}
	case ActionAdminAdd, ActionAdminRemove:
		if a.Admin, err = r.readAddress(); err != nil {
			return err
		}
	case ActionNone:
	default:
		return errCodec
	}
	return nil
}

func encodeVoteReceipt(v *VoteReceipt) string {
	w := newWriter()
	w.writeAddress(v.Voter)
	w.buf.WriteByte(byte(v.Choice))
	w.writeAmount(v.Weight)
	w.writeInt64(v.VotedAt)
	return w.encoded()
}

func decodeVoteReceipt(data string) (*VoteReceipt, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	v := &VoteReceipt{}
	if v.Voter, err = r.readAddress(); err != nil {
		return nil, err
	}
	choiceByte, err := r.r.ReadByte()
	if err != nil {
		return nil, errCodec
	}
	v.Choice = VoteChoice(choiceByte)
	if v.Weight, err = r.readAmount(); err != nil {
		return nil, err
	}
	if v.VotedAt, err = r.readInt64(); err != nil {
		return nil, err
	}
	return v, nil
}

func encodeAuditEntry(e *AuditEntry) string {
	w := newWriter()
	w.writeUint64(e.Seq)
	w.writeAddress(e.Actor)
	w.writeString(e.Kind)
	w.writeString(e.Digest)
	w.writeInt64(e.Timestamp)
	return w.encoded()
}

func decodeAuditEntry(data string) (*AuditEntry, error) {
	r, err := newReader(data)
	if err != nil {
		return nil, err
	}
	e := &AuditEntry{}
	if e.Seq, err = r.readUint64(); err != nil {
		return nil, err
	}
	if e.Actor, err = r.readAddress(); err != nil {
		return nil, err
	}
	if e.Kind, err = r.readString(); err != nil {
		return nil, err
	}
	if e.Digest, err = r.readString(); err != nil {
		return nil, err
	}
	if e.Timestamp, err = r.readInt64(); err != nil {
		return nil, err
	}
	return e, nil
}
