package normalize

// confusableTable maps single code points to the letter they visually
// impersonate. Checked after diacritic stripping, per code point.
var confusableTable = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'8': 'b',
	'@': 'a',
	'$': 's',
	'!': 'i',
	'|': 'i',
	'€': 'e',
	'£': 'l',
	'¢': 'c',
	'§': 's',
}
