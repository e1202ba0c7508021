// Package xmlstream provides the pull-style element cursor and the push-style
// writer the codec runs on.
//
// The Reader wraps encoding/xml's tokenizer, tracks namespace scopes so that
// QName-valued content (xsi:type, QName adapters) can be resolved, and hands
// out opaque sub-documents as etree elements. The Writer manages namespace
// declarations on a lazily closed start tag and writes etree elements back.
package xmlstream
