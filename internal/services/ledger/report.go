package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ipwatch/internal/domain"
)

// Report is the full chain-of-custody view of one evidence file.
type Report struct {
	File      domain.EvidenceFile
	History   []domain.CustodyEntry
	Chain     ChainStatus
	CreatedAt time.Time
}

type ChainStatus struct {
	Intact bool
	// BrokenAt is the Seq of the first entry whose hash does not match, 0 when intact.
	BrokenAt int
	Entries  int
}

func (s *Service) ChainOfCustody(ctx context.Context, evidenceID string) (Report, error) {
	if _, err := uuid.Parse(evidenceID); err != nil {
		return Report{}, domain.ErrNotFound
	}
	f, err := s.repo.GetFile(ctx, evidenceID)
	if err != nil {
		return Report{}, err
	}
	history, err := s.repo.ListCustody(ctx, evidenceID)
	if err != nil {
		return Report{}, err
	}
	return Report{File: f, History: history, Chain: VerifyChain(history), CreatedAt: s.now()}, nil
}

// VerifyChain recomputes every link of an ordered custody history.
func VerifyChain(entries []domain.CustodyEntry) ChainStatus {
	prev := genesisHash
	for i, e := range entries {
		if e.Seq != i+1 || e.PrevHash != prev || chainHash(e) != e.ChainHash {
			return ChainStatus{Intact: false, BrokenAt: e.Seq, Entries: len(entries)}
		}
		prev = e.ChainHash
	}
	return ChainStatus{Intact: true, Entries: len(entries)}
}
