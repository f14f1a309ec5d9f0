package sigs

import (
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/crypto"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSignBytes(t *testing.T) {
	const chainID = "custody-test"
	deposit := []byte("deposit 50 into vault-1")

	base, err := BuildSignBytes(deposit, chainID, 4)
	require.NoError(t, err)
	assert.Len(t, base, 64)

	fromTx, err := BuildSignBytesTx(NewStdTx(deposit), chainID, 4)
	require.NoError(t, err)
	assert.Equal(t, base, fromTx)

	variants := map[string]struct {
		payload []byte
		chainID string
		seq     int64
	}{
		"other payload":  {payload: []byte("deposit 51 into vault-1"), chainID: chainID, seq: 4},
		"other chain":    {payload: deposit, chainID: "custody-main", seq: 4},
		"other sequence": {payload: deposit, chainID: chainID, seq: 5},
	}
	for name, v := range variants {
		t.Run(name, func(t *testing.T) {
			got, err := BuildSignBytes(v.payload, v.chainID, v.seq)
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
		})
	}

	_, err = BuildSignBytes(deposit, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(deposit, "no", 1)
	assert.True(t, errors.ErrInvalidArgument.Is(err))
}

func TestVerifySignatureSequence(t *testing.T) {
	const chainID = "custody-test"
	owner := crypto.GenPrivKeyEd25519()
	payload := []byte("deduct 30 from vault-1")
	tx := NewStdTx(payload)

	sign := func(seq int64) *StdSignature {
		sig, err := SignTx(owner, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}

	again, err := SignTx(owner, tx, chainID, 1)
	require.NoError(t, err)
	assert.Equal(t, sign(1), again, "signing is deterministic")

	forged := sign(2)
	forged.Signature.Ed25519 = append([]byte{}, forged.Signature.Ed25519...)
	forged.Signature.Ed25519[0] ^= 0xFF

	kv := store.MemStore()
	steps := []struct {
		name    string
		sig     *StdSignature
		chainID string
		wantErr *errors.Error
	}{
		{name: "nil signature", sig: nil, chainID: chainID, wantErr: errors.ErrUnauthenticated},
		{name: "empty signature", sig: new(StdSignature), chainID: chainID, wantErr: errors.ErrUnauthenticated},
		{name: "first signature must use zero", sig: sign(1), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "zero", sig: sign(0), chainID: chainID},
		{name: "one", sig: sign(1), chainID: chainID},
		{name: "replay", sig: sign(1), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "gap", sig: sign(13), chainID: chainID, wantErr: ErrInvalidSequence},
		{name: "other chain", sig: sign(2), chainID: "custody-main", wantErr: errors.ErrUnauthenticated},
		{name: "forged", sig: forged, chainID: chainID, wantErr: errors.ErrUnauthenticated},
		{name: "two", sig: sign(2), chainID: chainID},
	}
	for _, step := range steps {
		signer, err := VerifySignature(kv, step.sig, payload, step.chainID)
		if step.wantErr != nil {
			assert.True(t, step.wantErr.Is(err), "%s: got %v", step.name, err)
			continue
		}
		require.NoError(t, err, step.name)
		assert.Equal(t, owner.PublicKey().Condition(), signer, step.name)
	}

	seq, err := NextSequence(kv, *owner.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, int64(3), seq)
}

func TestVerifyTxSignatures(t *testing.T) {
	const chainID = "custody-test"
	admin := crypto.GenPrivKeyEd25519()
	payee := crypto.GenPrivKeyEd25519()

	distribute := NewStdTx([]byte("distribute 250 to payee"))
	other := NewStdTx([]byte("distribute 999 to payee"))

	sign := func(key *crypto.PrivateKey, tx *StdTx, seq int64) *StdSignature {
		sig, err := SignTx(key, tx, chainID, seq)
		require.NoError(t, err)
		return sig
	}

	cases := map[string]struct {
		sigs    []*StdSignature
		want    []custody.Condition
		wantErr *errors.Error
	}{
		"unsigned": {
			want: []custody.Condition{},
		},
		"one signer": {
			sigs: []*StdSignature{sign(admin, distribute, 0)},
			want: []custody.Condition{admin.PublicKey().Condition()},
		},
		"two signers in order": {
			sigs: []*StdSignature{sign(admin, distribute, 0), sign(payee, distribute, 0)},
			want: []custody.Condition{admin.PublicKey().Condition(), payee.PublicKey().Condition()},
		},
		"signature of another tx": {
			sigs:    []*StdSignature{sign(payee, other, 0)},
			wantErr: errors.ErrUnauthenticated,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			distribute.Signatures = tc.sigs
			signers, err := VerifyTxSignatures(store.MemStore(), distribute, chainID)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, signers)
		})
	}
}

func TestUserDataSequence(t *testing.T) {
	u := UserData{Sequence: maxSequenceValue}
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(3)))
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence(maxSequenceValue)))

	assert.Error(t, (&UserData{Sequence: 4}).Validate())
	assert.Error(t, (&UserData{Sequence: -1}).Validate())
	assert.NoError(t, (&UserData{}).Validate())
}
