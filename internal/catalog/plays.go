package catalog

// CanonicalPlays returns the full canon of Shakespeare's plays with the
// aliases seen in the wild on theatre-company sites.
func CanonicalPlays() []Play {
	return []Play{
		{Slug: "hamlet", Title: "Hamlet", Aliases: []string{"The Tragedy of Hamlet", "Prince Hamlet"}},
		{Slug: "macbeth", Title: "Macbeth", Aliases: []string{"The Tragedy of Macbeth", "Mac Beth"}},
		{Slug: "romeoandjuliet", Title: "Romeo and Juliet", Aliases: []string{"R&J", "Romeo & Juliet"}},
		{Slug: "midsummer", Title: "A Midsummer Night's Dream", Aliases: []string{"A Midsummer Night’s Dream", "Midsummer", "MND"}},
		{Slug: "muchado", Title: "Much Ado About Nothing", Aliases: []string{"Much Ado"}},
		{Slug: "twelfthnight", Title: "Twelfth Night", Aliases: []string{"Twelfth Night or What You Will", "12th Night"}},
		{Slug: "taming", Title: "The Taming of the Shrew", Aliases: []string{"Taming of the Shrew", "Taming"}},
		{Slug: "merchant", Title: "The Merchant of Venice", Aliases: []string{"Merchant of Venice", "Merchant"}},
		{Slug: "tempest", Title: "The Tempest", Aliases: []string{"Tempest"}},
		{Slug: "asyoulikeit", Title: "As You Like It"},
		{Slug: "allswell", Title: "All's Well That Ends Well", Aliases: []string{"Alls Well"}},
		{Slug: "comedyoferrors", Title: "The Comedy of Errors", Aliases: []string{"Comedy of Errors"}},
		{Slug: "loveslabourslost", Title: "Love's Labour's Lost", Aliases: []string{"Loves Labours Lost", "Love’s Labor’s Lost"}},
		{Slug: "twogents", Title: "The Two Gentlemen of Verona", Aliases: []string{"Two Gentlemen of Verona", "Two Gents"}},
		{Slug: "merrywives", Title: "The Merry Wives of Windsor", Aliases: []string{"Merry Wives"}},
		{Slug: "measureformeasure", Title: "Measure for Measure"},
		{Slug: "antonyandcleopatra", Title: "Antony and Cleopatra"},
		{Slug: "coriolanus", Title: "Coriolanus"},
		{Slug: "juliuscaesar", Title: "Julius Caesar"},
		{Slug: "kinglear", Title: "King Lear"},
		{Slug: "othello", Title: "Othello"},
		{Slug: "timon", Title: "Timon of Athens", Aliases: []string{"Timon"}},
		{Slug: "titus", Title: "Titus Andronicus", Aliases: []string{"Titus"}},
		{Slug: "kingjohn", Title: "King John"},
		{Slug: "richardii", Title: "Richard II", Aliases: []string{"Richard 2"}},
		{Slug: "henryiv1", Title: "Henry IV, Part 1", Aliases: []string{"Henry IV Part 1", "Henry IV Pt 1", "1 Henry IV"}},
		{Slug: "henryiv2", Title: "Henry IV, Part 2", Aliases: []string{"Henry IV Part 2", "Henry IV Pt 2", "2 Henry IV"}},
		{Slug: "henryv", Title: "Henry V"},
		{Slug: "henryvi1", Title: "Henry VI, Part 1", Aliases: []string{"1 Henry VI"}},
		{Slug: "henryvi2", Title: "Henry VI, Part 2", Aliases: []string{"2 Henry VI"}},
		{Slug: "henryvi3", Title: "Henry VI, Part 3", Aliases: []string{"3 Henry VI"}},
		{Slug: "richardiii", Title: "Richard III", Aliases: []string{"Richard 3"}},
		{Slug: "henryviii", Title: "Henry VIII", Aliases: []string{"Henry 8"}},
		{Slug: "cymbeline", Title: "Cymbeline"},
		{Slug: "pericles", Title: "Pericles"},
		{Slug: "winterstale", Title: "The Winter's Tale", Aliases: []string{"Winters Tale"}},
		{Slug: "twonoblekinsmen", Title: "The Two Noble Kinsmen", Aliases: []string{"Two Noble Kinsmen", "Two Nobles"}},
	}
}
