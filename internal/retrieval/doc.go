// Package retrieval fetches semantically relevant facilities from an external index.
//
// An [Index] returns hits in semantic order; a [Hydrator] turns hits into catalog
// records. [Retriever] combines both under a timeout and reports index outages as
// [ErrRetrievalFailed], which callers must tell apart from an empty answer.
//
// Two indexes are provided:
//   - [VectorDBIndex], an HTTP client for the vector database service, optionally
//     embedding the query itself through langchaingo
//   - [BleveIndex], an in-memory full-text index built from the catalog, used for
//     development and offline runs
package retrieval
