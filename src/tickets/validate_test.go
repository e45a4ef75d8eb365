package tickets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vipType() TypeInfo {
	return TypeInfo{
		EventID:      1,
		EventName:    "Tech Conference 2026",
		EventDate:    time.Date(2026, 8, 20, 18, 0, 0, 0, time.UTC),
		Location:     "Hyatt Regency, Casablanca",
		TicketTypeID: 10,
		TypeName:     "VIP",
		Price:        1000,
	}
}

func TestIssueThenValidateScenario(t *testing.T) {
	store := newMemStore()
	store.addType(vipType(), 100)
	codec := NewCodec(testKey)
	issuer := NewIssuer(codec, store)
	validator := NewValidator(codec, store)
	ctx := context.Background()

	issued, err := issuer.Issue(ctx, 1, 10, "Amina", "+212612345678", "amina@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Document)

	// what the scanner reads off the printed QR
	scanned := decodeQR(t, issued.QRPNG)
	assert.Equal(t, issued.Payload, scanned)

	decoded, err := codec.Decode(scanned)
	require.NoError(t, err)
	assert.Equal(t, issued.Identity.TicketID, decoded.TicketID)
	assert.Equal(t, issued.Identity.EventID, decoded.EventID)

	result, err := validator.Validate(ctx, scanned)
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, issued.Identity.TicketID, result.TicketID)
	assert.Equal(t, "Tech Conference 2026", result.EventName)
	require.NotNil(t, result.RedeemedAt)

	again, err := validator.Validate(ctx, scanned)
	require.NoError(t, err)
	assert.False(t, again.OK)
	assert.Equal(t, ReasonAlreadyUsed, again.Reason)
	assert.NotNil(t, again.RedeemedAt)
}

func TestValidateRejectsMalformedPayload(t *testing.T) {
	store := newMemStore()
	validator := NewValidator(NewCodec(testKey), store)

	result, err := validator.Validate(context.Background(), "not-json")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, ReasonInvalidFormat, result.Reason)
}

func TestValidateUnknownTicket(t *testing.T) {
	store := newMemStore()
	codec := NewCodec(testKey)
	validator := NewValidator(codec, store)

	identity, err := Mint(1, 10)
	require.NoError(t, err)
	payload, err := codec.Encode(identity)
	require.NoError(t, err)

	result, err := validator.Validate(context.Background(), payload)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, ReasonUnknownTicket, result.Reason)
}

func TestValidateWrongEvent(t *testing.T) {
	store := newMemStore()
	store.addType(vipType(), 10)
	codec := NewCodec(testKey)
	issuer := NewIssuer(codec, store)
	validator := NewValidator(codec, store)
	ctx := context.Background()

	issued, err := issuer.Issue(ctx, 1, 10, "Amina", "+212612345678", "")
	require.NoError(t, err)

	// same ticket id presented with a payload signed for another event
	forged, err := codec.Encode(Identity{
		TicketID: issued.Identity.TicketID,
		EventID:  2,
	})
	require.NoError(t, err)
	result, err := validator.Validate(ctx, forged)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, ReasonUnknownTicket, result.Reason)
}

func TestValidateVoidTicket(t *testing.T) {
	store := newMemStore()
	store.addType(vipType(), 10)
	codec := NewCodec(testKey)
	issuer := NewIssuer(codec, store)
	validator := NewValidator(codec, store)
	ctx := context.Background()

	issued, err := issuer.Issue(ctx, 1, 10, "Amina", "+212612345678", "")
	require.NoError(t, err)
	ok, err := store.VoidTicket(ctx, issued.Identity.TicketID)
	require.NoError(t, err)
	require.True(t, ok)

	result, err := validator.Validate(ctx, issued.Payload)
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.Equal(t, ReasonVoid, result.Reason)
}

func TestValidateStorageFaultIsRetryable(t *testing.T) {
	store := newMemStore()
	store.findErr = ErrStorageUnavailable
	codec := NewCodec(testKey)
	validator := NewValidator(codec, store)

	identity, err := Mint(1, 10)
	require.NoError(t, err)
	payload, err := codec.Encode(identity)
	require.NoError(t, err)

	_, err = validator.Validate(context.Background(), payload)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestValidateExactlyOnceUnderConcurrency(t *testing.T) {
	store := newMemStore()
	store.addType(vipType(), 10)
	codec := NewCodec(testKey)
	issuer := NewIssuer(codec, store)
	validator := NewValidator(codec, store)
	ctx := context.Background()

	issued, err := issuer.Issue(ctx, 1, 10, "Amina", "+212612345678", "")
	require.NoError(t, err)

	const scanners = 50
	var ok, alreadyUsed atomic.Int32
	var wg sync.WaitGroup
	wg.Add(scanners)
	for i := 0; i < scanners; i++ {
		go func() {
			defer wg.Done()
			result, err := validator.Validate(ctx, issued.Payload)
			if err != nil {
				return
			}
			if result.OK {
				ok.Add(1)
			} else if result.Reason == ReasonAlreadyUsed {
				alreadyUsed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(scanners-1), alreadyUsed.Load())
}

func TestIssueNeverOversellsUnderConcurrency(t *testing.T) {
	store := newMemStore()
	store.addType(vipType(), 1)
	issuer := NewIssuer(NewCodec(testKey), store)
	ctx := context.Background()

	const buyers = 100
	var issued atomic.Int32
	var soldOut atomic.Int32
	var wg sync.WaitGroup
	wg.Add(buyers)
	for i := 0; i < buyers; i++ {
		go func() {
			defer wg.Done()
			_, err := issuer.Issue(ctx, 1, 10, "Amina", "+212612345678", "")
			switch {
			case err == nil:
				issued.Add(1)
			case errors.Is(err, ErrCapacityExceeded):
				soldOut.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), issued.Load())
	assert.Equal(t, int32(buyers-1), soldOut.Load())
}

func TestIssueUnknownType(t *testing.T) {
	store := newMemStore()
	issuer := NewIssuer(NewCodec(testKey), store)
	_, err := issuer.Issue(context.Background(), 1, 99, "Amina", "+212612345678", "")
	assert.ErrorIs(t, err, ErrUnknownTicketType)
}

func TestIssueReleasesClaimOnFailure(t *testing.T) {
	store := newMemStore()
	store.addType(vipType(), 1)
	issuer := NewIssuer(NewCodec(testKey), store)
	ctx := context.Background()

	// first issuance wins the only seat
	_, err := issuer.Issue(ctx, 1, 10, "Amina", "+212612345678", "")
	require.NoError(t, err)
	_, err = issuer.Issue(ctx, 1, 10, "Yassine", "+212698765432", "")
	require.ErrorIs(t, err, ErrCapacityExceeded)

	// failures after the claim hand the seat back
	store.mu.Lock()
	store.types[10].issued = 0
	store.types[10].quantity = 1
	failing := &failingStore{memStore: store}
	store.mu.Unlock()
	_, err = NewIssuer(NewCodec(testKey), failing).Issue(ctx, 1, 10, "Yassine", "+212698765432", "")
	require.Error(t, err)

	store.mu.Lock()
	assert.Equal(t, uint(0), store.types[10].issued)
	store.mu.Unlock()
}

type failingStore struct {
	*memStore
}

func (f *failingStore) CreateTicket(ctx context.Context, rec *Record) error {
	return ErrStorageUnavailable
}
