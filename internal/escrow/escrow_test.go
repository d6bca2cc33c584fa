package escrow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mselser95/parimutuel-engine/pkg/types"
)

func TestDeriveAuthorityDeterministic(t *testing.T) {
	id := uuid.New()

	auth1, proof1 := DeriveAuthority(id)
	auth2, proof2 := DeriveAuthority(id)

	if auth1 != auth2 {
		t.Errorf("authority not deterministic: %s vs %s", auth1, auth2)
	}
	if proof1 != proof2 {
		t.Errorf("proof not deterministic")
	}
	if auth1 == (types.Identity{}) {
		t.Error("derived zero authority")
	}
}

func TestDeriveDistinctPerMarket(t *testing.T) {
	a, _ := DeriveAuthority(uuid.New())
	b, _ := DeriveAuthority(uuid.New())

	if a == b {
		t.Error("distinct markets derived the same authority")
	}
}

func TestAccountAndAuthorityDisjoint(t *testing.T) {
	id := uuid.New()

	auth, _ := DeriveAuthority(id)
	account := DeriveAccount(id)

	if auth == account {
		t.Error("escrow account collides with its authority")
	}
}

func TestVerify(t *testing.T) {
	id := uuid.New()
	auth, proof := DeriveAuthority(id)

	if !Verify(id, auth, proof) {
		t.Fatal("valid derivation rejected")
	}

	if Verify(uuid.New(), auth, proof) {
		t.Error("proof accepted for a different market")
	}

	var badProof Proof
	if Verify(id, auth, badProof) {
		t.Error("zero proof accepted")
	}

	otherAuth, _ := DeriveAuthority(uuid.New())
	if Verify(id, otherAuth, proof) {
		t.Error("foreign authority accepted")
	}
}
