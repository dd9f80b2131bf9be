package fp751

// Field constants for p = 2^372 * 3^239 - 1, the P751 SIDH prime.
//
// These can't be Go constants because Go doesn't allow array constants;
// try not to modify them.

// p = 2^372 * 3^239 - 1
var p751 = Element{
	0xffffffffffffffff, 0xffffffffffffffff, 0xffffffffffffffff, 0xffffffffffffffff,
	0xffffffffffffffff, 0xeeafffffffffffff, 0xe3ec968549f878a8, 0xda959b1a13f7cc76,
	0x084e9867d6ebe876, 0x8562b5045cb25748, 0x0e12909f97badc66, 0x00006fe5d541f71c,
}

// 2*p
var p751X2 = Element{
	0xfffffffffffffffe, 0xffffffffffffffff, 0xffffffffffffffff, 0xffffffffffffffff,
	0xffffffffffffffff, 0xdd5fffffffffffff, 0xc7d92d0a93f0f151, 0xb52b363427ef98ed,
	0x109d30cfadd7d0ed, 0x0ac56a08b964ae90, 0x1c25213f2f75b8cd, 0x0000dfcbaa83ee38,
}

// p + 1 = 2^372 * 3^239.  The five low limbs are zero, which the Montgomery
// reduction exploits.
var p751P1 = Element{
	0x0000000000000000, 0x0000000000000000, 0x0000000000000000, 0x0000000000000000,
	0x0000000000000000, 0xeeb0000000000000, 0xe3ec968549f878a8, 0xda959b1a13f7cc76,
	0x084e9867d6ebe876, 0x8562b5045cb25748, 0x0e12909f97badc66, 0x00006fe5d541f71c,
}

// 2^768 mod p.  This is the Montgomery representation of 1.
var montgomeryR = Element{
	0x00000000000249ad, 0x0000000000000000, 0x0000000000000000, 0x0000000000000000,
	0x0000000000000000, 0x8310000000000000, 0x5527b1e4375c6c66, 0x697797bf3f4f24d0,
	0xc89db7b2ac5c4e2e, 0x4ca4b439d2076956, 0x10f7926c7512c7e9, 0x00002d5b24bce5e2,
}

// (2^768)^2 mod p
var montgomeryRsq = Element{
	0x233046449dad4058, 0xdb010161a696452a, 0x5e36941472e3fd8e, 0xf40bfe2082a2e706,
	0x4932cca8904f8751, 0x1f735f1f1ee7fc81, 0xa24f4d80c1048e18, 0xb56c383ccdb607c5,
	0x441dd47b735f9c90, 0x5673ed2c6a6ac82a, 0x06c905261132294b, 0x000041ad830f1f35,
}

// ((p+1)/2) * 2^768 mod p, the Montgomery representation of one half.
var montgomeryHalf = Element{
	0x00000000000124d6, 0x0000000000000000, 0x0000000000000000, 0x0000000000000000,
	0x0000000000000000, 0xb8e0000000000000, 0x9c8a2434c0aa7287, 0xa206996ca9a378a3,
	0x6876280d41a41b52, 0xe903b49f175ce04f, 0x0f8511860666d227, 0x00004ea07cff6e7f,
}

// 3^238, the bound used when sampling Bob's secret scalar.
var three238 = [6]uint64{
	0xedcd718a828384f9, 0x733b35bfd4427a14, 0xf88229cf94d7cf38,
	0x63c56c990c7c2ad6, 0xb858a87e8f4222c7, 0x0254c9c6b525eaf5,
}
