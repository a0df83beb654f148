package flash

// PageSize is the erase/program granularity of internal flash.
const PageSize = 1024

// WriteSize is the word size the underlying driver programs at a time.
const WriteSize = 4

// ErasedWord is the pattern a word reads as immediately after an erase.
const ErasedWord = 0xFFFFFFFF
