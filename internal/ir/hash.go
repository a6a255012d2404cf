package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainPlatform = "qsched/platform/v1"
	DomainProgram  = "qsched/program/v1"
	DomainSchedule = "qsched/schedule/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// hashJSON hashes the JSON encoding of v. encoding/json emits struct fields in
// declaration order and map keys sorted, so the encoding is deterministic for
// the types in this package.
func hashJSON(domain string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%s: failed to marshal: %w", domain, err)
	}
	return hashWithDomain(domain, data), nil
}

// PlatformHash computes the content hash of a platform descriptor.
// A stored schedule is only replayable against a platform with the same hash.
func PlatformHash(p *Platform) (string, error) {
	return hashJSON(DomainPlatform, p)
}

// ProgramHash computes the content hash of an instruction sequence.
func ProgramHash(program []Instruction) (string, error) {
	if program == nil {
		program = []Instruction{}
	}
	return hashJSON(DomainProgram, program)
}

// ScheduleHash computes the content hash of a list of placements.
// Two schedules with the same hash place the same instructions at the same cycles
// in the same commit order.
func ScheduleHash(placements []Placement) (string, error) {
	if placements == nil {
		placements = []Placement{}
	}
	return hashJSON(DomainSchedule, placements)
}
