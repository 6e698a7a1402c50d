package payments

import "testing"

func TestVerifySignature(t *testing.T) {
	secret := "test_secret_key"
	orderID := "order_Nf8qW1abc"
	paymentID := "pay_Nf8r92xyz"

	signature := ComputeSignature(secret, orderID, paymentID)

	if !VerifySignature(secret, orderID, paymentID, signature) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(secret, orderID, paymentID, signature+"0") {
		t.Error("tampered signature accepted")
	}
	if VerifySignature(secret, orderID, "pay_other", signature) {
		t.Error("signature accepted for a different payment")
	}
	if VerifySignature("wrong_secret", orderID, paymentID, signature) {
		t.Error("signature accepted with the wrong secret")
	}
	if VerifySignature(secret, orderID, paymentID, "") {
		t.Error("empty signature accepted")
	}
}

func TestComputeSignatureDeterministic(t *testing.T) {
	a := ComputeSignature("s", "o", "p")
	b := ComputeSignature("s", "o", "p")
	if a != b {
		t.Error("signature is not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("hex SHA256 length = %d, want 64", len(a))
	}
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount float64
		want   int64
	}{
		{250.00, 25000},
		{199.99, 19999},
		{0.01, 1},
		{333.335, 33334},
		{0, 0},
	}
	for _, tt := range tests {
		if got := MinorUnits(tt.amount); got != tt.want {
			t.Errorf("MinorUnits(%v) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}
