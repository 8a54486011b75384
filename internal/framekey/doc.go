/*
Package framekey parses and formats the frame keys that address one frame of
an image sweep. A key is a sequence of `name=digits` tokens, e.g.
`a=03b=07`, where each name is one or more letters or digits and the digits
are the zero-padded index of that parameter. Filenames carry keys verbatim,
so `sweep_s=004_t=12.png` yields the pairs s=004 and t=12.
*/
package framekey
