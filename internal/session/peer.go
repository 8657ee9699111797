// internal/session/peer.go
package session

import (
	"fmt"

	"github.com/tamzrod/sdharness/internal/store"
)

// Binaural peer address parameters. The peer MAC is split across two
// words: Address2 carries the low 24 bits, Address1 the rest.
const (
	ParamPeerAddress1 = "X_RF_BinauralPeerAddress1"
	ParamPeerAddress2 = "X_RF_BinauralPeerAddress2"
)

// SplitPeerAddress returns the (Address1, Address2) words for addr.
func SplitPeerAddress(addr uint64) (hi, lo uint32, err error) {
	if addr>>24 > uint64(store.WordMax) {
		return 0, 0, fmt.Errorf("%w: peer address 0x%x exceeds 48 bits", store.ErrWordRange, addr)
	}
	return uint32(addr >> 24), uint32(addr) & store.WordMax, nil
}

// JoinPeerAddress is the inverse of SplitPeerAddress.
func JoinPeerAddress(hi, lo uint32) uint64 {
	return uint64(hi&store.WordMax)<<24 | uint64(lo&store.WordMax)
}

// SetPeerAddress programs the binaural peer address.
func (s *Session) SetPeerAddress(addr uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hi, lo, err := SplitPeerAddress(addr)
	if err != nil {
		return err
	}
	if err := s.setWords([]string{ParamPeerAddress2, ParamPeerAddress1}, []uint32{lo, hi}); err != nil {
		return err
	}

	s.log.Info("binaural peer address set", "peer", fmt.Sprintf("%012x", addr))
	return nil
}

// PeerAddress reads the binaural peer address back.
func (s *Session) PeerAddress() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	words, err := s.getWords([]string{ParamPeerAddress1, ParamPeerAddress2})
	if err != nil {
		return 0, err
	}
	return JoinPeerAddress(words[0], words[1]), nil
}
