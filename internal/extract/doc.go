// Package extract pulls contact details and a plain-text project dump out of
// rendered page HTML. Every function is pure and works on goquery documents.
package extract
