package models

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pw" {
		t.Fatalf("hash must not equal the plain password")
	}
	if !CheckPassword(hash, "s3cret-pw") {
		t.Fatalf("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatalf("wrong password accepted")
	}
}

func TestRoleCapabilities(t *testing.T) {
	p := &Product{SellerID: 7}

	buyer := &User{ID: 7, Role: RoleBuyer}
	if buyer.CanSell() {
		t.Fatalf("buyer must not sell")
	}
	if buyer.Owns(p) {
		t.Fatalf("buyer owns nothing, even with a matching id")
	}

	owner := &User{ID: 7, Role: RoleSeller}
	if !owner.CanSell() || !owner.Owns(p) {
		t.Fatalf("owning seller must manage their product")
	}

	other := &User{ID: 8, Role: RoleSeller}
	if other.Owns(p) {
		t.Fatalf("seller must not own another seller's product")
	}

	admin := &User{ID: 1, Role: RoleAdmin}
	if !admin.CanSell() || !admin.Owns(p) {
		t.Fatalf("admin must manage any product")
	}
}
