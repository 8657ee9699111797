// internal/session/count.go
package session

import "github.com/tamzrod/sdharness/internal/config"

// CountParameters returns the number of system parameters and the number
// of parameters in each NVM memory, from the session's parameter map.
func (s *Session) CountParameters() (system int, perMemory []int) {
	perMemory = make([]int, config.Memories)
	for _, p := range s.opts.Parameters {
		if p.Memory == nil {
			system++
			continue
		}
		if m := *p.Memory; m >= 0 && m < config.Memories {
			perMemory[m]++
		}
	}
	return system, perMemory
}
