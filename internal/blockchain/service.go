package blockchain

import (
	"context"

	dErrors "trailguard/pkg/domain-errors"
)

// EthCaller abstracts the RPC transport so the service can be tested without
// a live endpoint.
type EthCaller interface {
	EthCall(ctx context.Context, to, data string) ([]byte, error)
}

// VerifyResult is the normalized verification outcome. Issuer and Status are
// nil when the registry has no record for the hash.
type VerifyResult struct {
	Found  bool    `json:"found"`
	Issuer *string `json:"issuer,omitempty"`
	Status *int    `json:"status,omitempty"`
}

// Service proxies digital-ID lookups to the registry contract.
type Service struct {
	caller   EthCaller
	contract string
}

// NewService constructs the verification service. contract may be empty, in
// which case every lookup fails with a configuration error.
func NewService(caller EthCaller, contract string) *Service {
	return &Service{caller: caller, contract: contract}
}

// Verify looks up the id hash in the registry. An all-zero stored hash means
// the contract has no record, which is a successful "not found" rather than
// an error.
func (s *Service) Verify(ctx context.Context, idHash string) (VerifyResult, error) {
	if s.contract == "" {
		return VerifyResult{}, dErrors.New(dErrors.CodeBadRequest, "contract not configured")
	}

	hash, err := parseHash(idHash)
	if err != nil {
		return VerifyResult{}, dErrors.New(dErrors.CodeBadRequest, "invalid id_hash")
	}

	raw, err := s.caller.EthCall(ctx, s.contract, encodeGetCall(hash))
	if err != nil {
		return VerifyResult{}, dErrors.New(dErrors.CodeInternal, err.Error())
	}

	rec, err := decodeGetResult(raw)
	if err != nil {
		return VerifyResult{}, dErrors.New(dErrors.CodeInternal, err.Error())
	}

	if isZeroHash(rec.IDHash) {
		return VerifyResult{Found: false}, nil
	}

	issuer := checksumAddress(rec.Issuer)
	status := rec.Status
	return VerifyResult{Found: true, Issuer: &issuer, Status: &status}, nil
}
