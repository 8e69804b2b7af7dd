package domain

// ResultMarker is the first line of every rendered search result and is
// part of the wire contract (v1): a reply is recognized as targeting one
// of our results only when the referenced message text starts with this
// exact token. The value is opaque and fixed; alternate clients that want
// to interoperate with the confirmation protocol must emit it verbatim.
const ResultMarker = "1373d25ae7d42a721685bb71a21074affb1bd49355959f569cdbb539b400dfa5"
