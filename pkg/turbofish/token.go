package turbofish

// TypeToken is a single generic type name, e.g. "Vec" or "i32".
type TypeToken struct {
	Name string
}

// String returns the display form of the token.
func (t TypeToken) String() string {
	return t.Name
}

var defaultVocabulary = []TypeToken{
	// primitives
	{"i8"}, {"i16"}, {"i32"}, {"i64"}, {"i128"}, {"isize"},
	{"u8"}, {"u16"}, {"u32"}, {"u64"}, {"u128"}, {"usize"},
	{"f32"}, {"f64"}, {"bool"}, {"char"}, {"str"}, {"String"},
	// collections and wrappers
	{"Vec"}, {"VecDeque"}, {"LinkedList"}, {"HashMap"}, {"HashSet"},
	{"BTreeMap"}, {"BTreeSet"}, {"BinaryHeap"},
	{"Option"}, {"Result"}, {"Box"}, {"Rc"}, {"Arc"}, {"Weak"},
	{"Cell"}, {"RefCell"}, {"Mutex"}, {"RwLock"}, {"Cow"}, {"Pin"},
	{"PhantomData"}, {"Sender"}, {"Receiver"},
}

// DefaultVocabulary returns a copy of the built-in token vocabulary.
func DefaultVocabulary() []TypeToken {
	vocab := make([]TypeToken, len(defaultVocabulary))
	copy(vocab, defaultVocabulary)
	return vocab
}
