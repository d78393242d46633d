package core

// sequence issues the session-scoped offer, order and transaction ids.
// Each Next* advances its counter exactly once and then probes the
// existing records for a free id; the probe only matters when the audit
// store was pre-seeded (e.g. a restored session) and is safe because every
// caller already holds the session mutex.
type sequence struct {
	offer       int
	order       int
	transaction int
}

func (s *sequence) nextOfferID(taken func(int) bool) int {
	s.offer++
	id := s.offer
	for taken(id) {
		id++
	}
	return id
}

func (s *sequence) nextOrderID(taken func(int) bool) int {
	s.order++
	id := s.order
	for taken(id) {
		id++
	}
	return id
}

func (s *sequence) nextTransactionID(taken func(int) bool) int {
	s.transaction++
	id := s.transaction
	for taken(id) {
		id++
	}
	return id
}
