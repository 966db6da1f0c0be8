package strength

// commonPasswordRank maps well-known passwords to an approximate popularity
// rank. Membership short-circuits the guess estimate to ~log10(rank).
var commonPasswordRank = map[string]int{
	"123456":      1,
	"password":    2,
	"123456789":   3,
	"12345678":    4,
	"12345":       5,
	"qwerty":      6,
	"1234567":     7,
	"111111":      8,
	"123123":      9,
	"abc123":      10,
	"1234567890":  11,
	"iloveyou":    12,
	"password1":   13,
	"admin":       14,
	"letmein":     15,
	"welcome":     16,
	"monkey":      17,
	"dragon":      18,
	"sunshine":    19,
	"princess":    20,
	"football":    21,
	"shadow":      22,
	"master":      23,
	"666666":      24,
	"qwertyuiop":  25,
	"123321":      26,
	"superman":    27,
	"1q2w3e4r":    28,
	"7777777":     29,
	"baseball":    30,
	"trustno1":    31,
	"jordan":      32,
	"harley":      33,
	"ranger":      34,
	"hunter":      35,
	"buster":      36,
	"soccer":      37,
	"batman":      38,
	"test":        39,
	"pass":        40,
	"killer":      41,
	"hockey":      42,
	"george":      43,
	"charlie":     44,
	"andrew":      45,
	"michelle":    46,
	"love":        47,
	"jessica":     48,
	"asdfgh":      49,
	"pepper":      50,
	"daniel":      51,
	"access":      52,
	"123qwe":      53,
	"mustang":     54,
	"asdf1234":    55,
	"password123": 56,
	"starwars":    57,
	"freedom":     58,
	"whatever":    59,
	"qazwsx":      60,
	"zxcvbnm":     61,
	"654321":      62,
	"112233":      63,
	"121212":      64,
	"000000":      65,
	"secret":      66,
	"google":      67,
	"computer":    68,
	"passw0rd":    69,
	"internet":    70,
}
