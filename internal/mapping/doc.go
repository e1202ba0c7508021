// Package mapping provides the YAML schema file format that describes XML
// types as data, its parsing, validation and the construction of a sealed
// descriptor registry over dynamic records.
//
// # Schema Overview
//
//	version: "1"
//	namespace: urn:example:shop      # target namespace of type and element names
//	prefixes:
//	  ext: urn:example:ext
//	types:
//	  - name: orderType
//	    element: order                 # global element, optional
//	    subtypes: [rushOrderType]
//	    fields:
//	      - attr: id
//	        adapter: token
//	        id: true
//	      - element: customer
//	        adapter: collapsed
//	        cardinality: required
//	      - element: item
//	        type: itemType
//	        cardinality: repeated
//	      - element: note
//	        adapter: string
//	        nillable: true
//	      - any: true                  # keeps unmatched children as sub-documents
//
// Names are written as "local", "prefix:local" or "{uri}local". Unprefixed
// type and element names take the schema namespace; unprefixed attribute
// names stay unqualified, as in XML. Each field stores its value in the record
// under its key, which defaults to the local name.
//
// # Validation
//
// Validate reports problems as diagnostic.Diagnostics with stable codes
// (duplicate_type, unknown_type, unknown_adapter, invalid_name,
// invalid_field, duplicate_key, ...), suggesting close names where it can.
// Build refuses a schema with errors.
package mapping
