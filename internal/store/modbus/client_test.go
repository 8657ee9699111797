// internal/store/modbus/client_test.go
package modbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/sdharness/internal/devicename"
	"github.com/tamzrod/sdharness/internal/store"
)

// ---- fake register client ----

type fakeRegisters struct {
	regs    map[uint16]uint16
	writes  int
	failAt  int // fail the n-th write (1-based), 0 = never
	readErr error
}

func newFakeRegisters() *fakeRegisters {
	return &fakeRegisters{regs: map[uint16]uint16{}}
}

func (f *fakeRegisters) ReadHoldingRegisters(address, quantity uint16) ([]byte, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]byte, 2*quantity)
	for i := uint16(0); i < quantity; i++ {
		r := f.regs[address+i]
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out, nil
}

func (f *fakeRegisters) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	f.writes++
	if f.failAt != 0 && f.writes == f.failAt {
		return nil, errors.New("illegal data address")
	}
	for i := uint16(0); i < quantity; i++ {
		f.regs[address+i] = uint16(value[2*i])<<8 | uint16(value[2*i+1])
	}
	return nil, nil
}

func nameAddrs(l devicename.Layout, base uint16) map[string]uint16 {
	out := map[string]uint16{}
	for i, n := range l.SlotNames() {
		out[n] = base + uint16(i*RegistersPerWord)
	}
	return out
}

// ---- tests ----

func TestStore_WordRegisterLayout(t *testing.T) {
	fake := newFakeRegisters()
	s := newStore(fake, 1, map[string]uint16{"P": 40})

	require.NoError(t, s.SetWords([]string{"P"}, []uint32{0x48c3b6}))

	assert.Equal(t, uint16(0x0048), fake.regs[40])
	assert.Equal(t, uint16(0xc3b6), fake.regs[41])

	got, err := s.GetWords([]string{"P"})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x48c3b6}, got)
}

func TestStore_NameRecordRoundTrip(t *testing.T) {
	fake := newFakeRegisters()
	s := newStore(fake, 1, nameAddrs(devicename.DeviceName, 100))

	rec := devicename.Encode("Hörgerät")
	names := devicename.DeviceName.SlotNames()

	require.NoError(t, s.SetWords(names, rec.Words()))

	words, err := s.GetWords(names)
	require.NoError(t, err)

	back, err := devicename.RecordFromWords(words)
	require.NoError(t, err)
	assert.Equal(t, "Hörgerät", devicename.Decode(back))
}

func TestStore_UnknownParameterBeforeIO(t *testing.T) {
	fake := newFakeRegisters()
	s := newStore(fake, 1, map[string]uint16{"P": 0})

	err := s.SetWords([]string{"P", "Q"}, []uint32{1, 2})
	assert.ErrorIs(t, err, store.ErrUnknownParameter)
	assert.Zero(t, fake.writes)

	_, err = s.GetWords([]string{"Q"})
	assert.ErrorIs(t, err, store.ErrUnknownParameter)
}

func TestStore_RejectsOversizedWords(t *testing.T) {
	fake := newFakeRegisters()
	s := newStore(fake, 1, map[string]uint16{"P": 0})

	err := s.SetWords([]string{"P"}, []uint32{0x01000000})
	assert.ErrorIs(t, err, store.ErrWordRange)
	assert.Zero(t, fake.writes)

	fake.regs[0] = 0x0100
	_, err = s.GetWords([]string{"P"})
	assert.ErrorIs(t, err, store.ErrWordRange)
}

func TestStore_TransportErrorsPropagate(t *testing.T) {
	fake := newFakeRegisters()
	fake.failAt = 2
	s := newStore(fake, 1, map[string]uint16{"P": 0, "Q": 2})

	err := s.SetWords([]string{"P", "Q"}, []uint32{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write Q")

	fake.readErr = errors.New("i/o timeout")
	_, err = s.GetWords([]string{"P"})
	assert.ErrorIs(t, err, fake.readErr)
}

func TestStore_Closed(t *testing.T) {
	s := newStore(newFakeRegisters(), 1, map[string]uint16{"P": 0})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.GetWords([]string{"P"})
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, s.SetWords([]string{"P"}, []uint32{1}), store.ErrClosed)
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestUnpackWord_Short(t *testing.T) {
	_, err := unpackWord([]byte{0, 1})
	assert.Error(t, err)
}
