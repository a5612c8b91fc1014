package usf

// prngState is the xoshiro256+ generator state. The initial seed is a
// fixed constant chosen once and never meant to change, so golden
// vectors recorded against it stay reproducible.
type prngState [4]uint64

// defaultSeed is the fixed, nonzero seed every hook object starts from
// unless overridden by WithSeed.
var defaultSeed = prngState{
	0xb76d71f9443c228a,
	0x93a02092fc4807e8,
	0x06d81748f838bd07,
	0x9381ee129dddce6c,
}

func rotl(x uint64, k uint) uint64 {
	return (x << k) | (x >> (64 - k))
}

// next advances the generator by one step and returns a float64 in
// [0, 1), matching xoshiro256+'s recommended top-bits extraction
// (output >> 11) * 2^-53.
func (s *prngState) next() float64 {
	output := s[0] + s[3]

	t := s[1] << 17
	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = rotl(s[3], 45)

	return float64(output>>11) * (1.0 / (1 << 53))
}
