/*Package interval implements the genomic-region arithmetic shared by the
  patching pipeline: parsing and formatting of "chrom:start-end" region
  strings, and flank expansion clipped to sequence bounds.
  Coordinates are always zero-based and half-open, matching the BED files
  the pipeline exchanges them with.
*/
package interval
