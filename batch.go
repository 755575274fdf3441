package main

// batchReviews partitions reviews into contiguous batches of at most size,
// preserving order and covering every review exactly once.
func batchReviews(reviews []CleanedReview, size int) [][]CleanedReview {
	var batches [][]CleanedReview
	for start := 0; start < len(reviews); start += size {
		end := start + size
		if end > len(reviews) {
			end = len(reviews)
		}
		batches = append(batches, reviews[start:end])
	}
	return batches
}
